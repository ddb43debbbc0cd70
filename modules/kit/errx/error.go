package errx

import (
	"errors"
	"fmt"
	"runtime"
)

// Code 表示错误码（对外语义的稳定标识）。
type Code string

type kind uint8

const (
	kindBiz kind = iota
	kindSys
	// kindFault 是调用方契约错误或数据不变式错误：一定是 bug，派生时捕获一次栈。
	kindFault
)

func (k kind) String() string {
	switch k {
	case kindBiz:
		return "biz"
	case kindSys:
		return "sys"
	case kindFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Error 是通用错误模型：
// - code/msg：对外语义
// - data：上下文（内部会复制，禁止外部修改）
// - cause：原始错误链（仅用于溯源，不参与语义判断）
// - stack：系统错误在第一次挂 cause 时捕获；故障错误在第一次派生时捕获
type Error struct {
	code  Code
	msg   string
	data  map[string]any
	cause error
	stack []uintptr
	kind  kind
}

func NewBiz(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindBiz}
}

func NewSys(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindSys}
}

// NewFault 创建故障类哨兵错误。哨兵本身不带栈，WithData/WithCause 派生时才捕获。
func NewFault(code Code, msg string) *Error {
	return &Error{code: code, msg: msg, kind: kindFault}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.msg == "" {
		if e.cause == nil {
			return string(e.code)
		}
		return fmt.Sprintf("%s: %v", e.code, e.cause)
	}
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.code, e.msg)
	}
	return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.cause)
}

// Unwrap 让 errors.Is / errors.As 可以沿着 cause 链溯源。
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is 只按错误码判断语义是否相同，忽略 msg/data/cause。
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return e.code == t.code
}

func (e *Error) Code() Code {
	if e == nil {
		return ""
	}
	return e.code
}

func (e *Error) CodeText() string {
	if e == nil {
		return ""
	}
	return string(e.code)
}

func (e *Error) KindText() string {
	if e == nil {
		return ""
	}
	return e.kind.String()
}

func (e *Error) Msg() string {
	if e == nil {
		return ""
	}
	return e.msg
}

// Data 返回 data 的拷贝。
func (e *Error) Data() map[string]any {
	if e == nil || e.data == nil {
		return nil
	}
	return cloneAnyMap(e.data)
}

// Reason 返回约定的字符串原因码（存储在 data.reason）。
func (e *Error) Reason() string {
	if e == nil || e.data == nil {
		return ""
	}
	s, _ := e.data["reason"].(string)
	return s
}

func (e *Error) Stack() []uintptr {
	if e == nil || len(e.stack) == 0 {
		return nil
	}
	return cloneStack(e.stack)
}

func (e *Error) WithData(key string, value any) *Error {
	next := e.derive()
	if next.data == nil {
		next.data = make(map[string]any, 1)
	}
	next.data[key] = value
	next.captureFaultStack()
	return next
}

func (e *Error) WithDataMap(data map[string]any) *Error {
	next := e.derive()
	if len(data) != 0 {
		if next.data == nil {
			next.data = make(map[string]any, len(data))
		}
		for k, v := range data {
			next.data[k] = v
		}
	}
	next.captureFaultStack()
	return next
}

// WithMsgf 替换描述文本，保留 code/data/cause。
func (e *Error) WithMsgf(format string, args ...any) *Error {
	next := e.derive()
	next.msg = fmt.Sprintf(format, args...)
	next.captureFaultStack()
	return next
}

func (e *Error) WithCause(cause error) *Error {
	next := e.derive()
	next.cause = cause
	switch next.kind {
	case kindSys:
		// 只在首次挂 cause 时捕获；下层已有栈则不重复捕获。
		if cause != nil && len(next.stack) == 0 && !hasStackInChain(cause) {
			next.stack = captureStack(3)
		}
	case kindFault:
		next.captureFaultStack()
	}
	return next
}

func (e *Error) derive() *Error {
	return &Error{
		code:  e.code,
		msg:   e.msg,
		data:  cloneAnyMap(e.data),
		cause: e.cause,
		stack: cloneStack(e.stack),
		kind:  e.kind,
	}
}

func (e *Error) captureFaultStack() {
	if e.kind != kindFault || len(e.stack) != 0 {
		return
	}
	if e.cause != nil && hasStackInChain(e.cause) {
		return
	}
	e.stack = captureStack(4)
}

// CodeOf 返回错误链上第一个 *Error 的码；链上没有时返回 CodeInternal，nil 返回空。
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeInternal
}

// IsBiz 判断错误链上第一个 *Error 是否为业务拒绝。
func IsBiz(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kindBiz
}

// IsFault 判断错误链上第一个 *Error 是否为契约/不变式故障。
func IsFault(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.kind == kindFault
}

func cloneAnyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStack(in []uintptr) []uintptr {
	if len(in) == 0 {
		return nil
	}
	out := make([]uintptr, len(in))
	copy(out, in)
	return out
}

func captureStack(skip int) []uintptr {
	const maxDepth = 64
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip, pcs)
	if n <= 0 {
		return nil
	}
	return pcs[:n]
}

func hasStackInChain(err error) bool {
	const maxDepth = 32
	for i := 0; i < maxDepth && err != nil; i++ {
		if sp, ok := err.(interface{ Stack() []uintptr }); ok && len(sp.Stack()) != 0 {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
