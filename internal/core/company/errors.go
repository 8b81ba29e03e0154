package company

import "errors"

var (
	// ErrCompanyNotFound は会社が存在しない場合に返却されます。
	ErrCompanyNotFound = errors.New("company not found")
	// ErrNameAlreadyExists は会社名重複時に返却されます。
	ErrNameAlreadyExists = errors.New("name already exists")
	// ErrInvalidName は会社名が不正な場合に返却されます。
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidTier は区分が不正な場合に返却されます。
	ErrInvalidTier = errors.New("invalid tier")
	// ErrInvalidID は ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidPageSize は一覧取得時のページサイズが不正な場合に返却されます。
	ErrInvalidPageSize = errors.New("invalid page size")
	// ErrInvalidPageToken は一覧取得時のページトークンが不正な場合に返却されます。
	ErrInvalidPageToken = errors.New("invalid page token")
)
