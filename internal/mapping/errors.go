package mapping

import "errors"

var (
	// ErrMissingPlatform 事件引用的平台不存在，事件处理中止
	ErrMissingPlatform = errors.New("platform not found")
	// ErrUnknownEvent 无法识别的事件类型
	ErrUnknownEvent = errors.New("unknown event")
)
