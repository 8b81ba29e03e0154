package clock

import "time"

// System はシステム時刻を返す Clock 実装です。
type System struct {
	// Location が nil の場合はローカルタイムゾーンを使用します。
	Location *time.Location
}

// Now は現在時刻を返します。
func (s System) Now() time.Time {
	now := time.Now()
	if s.Location != nil {
		return now.In(s.Location)
	}
	return now
}
