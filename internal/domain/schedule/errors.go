package schedule

import "errors"

var ErrPointScheduleNotFound = errors.New("point schedule not found")
