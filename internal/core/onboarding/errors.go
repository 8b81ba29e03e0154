package onboarding

import "errors"

// ErrNilDependency は Service の生成時に協調オブジェクトが欠けている場合に返却されます。
var ErrNilDependency = errors.New("onboarding: nil dependency")
