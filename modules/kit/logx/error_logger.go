package logx

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/multierr"

	"SanguoRich/modules/kit/errx"
)

const (
	maxCauseDepth  = 20
	maxStackFrames = 32
)

// ErrorLog 是一条错误日志需要的全部信息。
// 结算回滚等场景会用 multierr 合并多个错误，Combined 按顺序列出每一个。
type ErrorLog struct {
	Error      string
	Code       string
	Kind       string
	Msg        string
	Reason     string
	Data       map[string]any
	CauseChain []string
	Combined   []string
	Origin     string
	Stack      string
}

// BuildErrorLog 取链上第一个 *errx.Error 的码、语义与上下文；栈取链上最早捕获的那一份。
func BuildErrorLog(err error) ErrorLog {
	if err == nil {
		return ErrorLog{}
	}
	out := ErrorLog{Error: err.Error()}

	var xe *errx.Error
	if errors.As(err, &xe) {
		out.Code = xe.CodeText()
		out.Kind = xe.KindText()
		out.Msg = xe.Msg()
		out.Reason = xe.Reason()
		out.Data = xe.Data()
	}
	if pcs := firstStack(err); len(pcs) > 0 {
		out.Origin, out.Stack = formatStack(pcs)
	}

	if errs := multierr.Errors(err); len(errs) > 1 {
		for _, e := range errs {
			out.Combined = append(out.Combined, describe(e))
		}
	}
	for cur, i := errors.Unwrap(err), 0; cur != nil && i < maxCauseDepth; cur, i = errors.Unwrap(cur), i+1 {
		out.CauseChain = append(out.CauseChain, describe(cur))
	}
	return out
}

// firstStack 外层 sys 错误包住已带栈的 fault 时，栈在内层；合并错误逐个查找。
func firstStack(err error) []uintptr {
	for _, e := range multierr.Errors(err) {
		for cur, i := e, 0; cur != nil && i < maxCauseDepth; cur, i = errors.Unwrap(cur), i+1 {
			if xe, ok := cur.(*errx.Error); ok && len(xe.Stack()) > 0 {
				return xe.Stack()
			}
		}
	}
	return nil
}

func describe(err error) string {
	var xe *errx.Error
	if errors.As(err, &xe) && xe.CodeText() != "" {
		return xe.CodeText() + ": " + err.Error()
	}
	return fmt.Sprintf("%T: %v", err, err)
}

// formatStack 返回首帧（发生处）与完整栈文本。
func formatStack(pcs []uintptr) (origin, stack string) {
	frames := runtime.CallersFrames(pcs)
	lines := make([]string, 0, maxStackFrames)
	for len(lines) < maxStackFrames {
		f, more := frames.Next()
		if f.Function == "" && f.File == "" {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line))
		if !more {
			break
		}
	}
	if len(lines) == 0 {
		return "", ""
	}
	return lines[0], strings.Join(lines, "\n")
}
