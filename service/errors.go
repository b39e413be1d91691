package service

import "errors"

// 业务错误类别。各 service 用 fmt.Errorf("%w: ...") 包装后返回，
// handler 层通过 errors.Is 判断类别并映射到 HTTP 状态码。
var (
	ErrSelfReference    = errors.New("self reference")     // 操作对象是自己
	ErrAlreadyExists    = errors.New("already exists")     // 唯一约束冲突
	ErrNotFound         = errors.New("not found")          // 实体不存在
	ErrPermissionDenied = errors.New("permission denied")  // 无权操作该实体
	ErrValidation       = errors.New("validation failed")  // 字段校验失败
)
