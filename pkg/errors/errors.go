// Package errors 跨层共享的错误类型。
//
// 生成链路只有两类致命错误：
//   - AggregationError：策略/员工/休假申请任一读取失败，整个请求失败，不返回部分上下文
//   - GenerationSchemaError：生成服务的返回不满足结构约束，整份响应丢弃
//
// 合规校验产生的 ValidationIssue 不是错误，见 internal/compliance。
package errors

import (
	"errors"
	"fmt"
)

// ErrInvalidPeriod 日期区间非法（start 必须早于 end）
var ErrInvalidPeriod = errors.New("日期区间无效：开始日期必须早于结束日期")

// AggregationError 上下文聚合失败
type AggregationError struct {
	Source string // store_policy | staff | off_requests
	Err    error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("聚合排班上下文失败 [%s]: %v", e.Source, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// GenerationSchemaError 生成结果结构校验失败
type GenerationSchemaError struct {
	// Index 出错的班次下标；-1 表示整体结构（JSON 语法、顶层字段、调用失败）问题
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *GenerationSchemaError) Error() string {
	msg := "生成结果结构无效"
	if e.Index >= 0 {
		msg += fmt.Sprintf(": shifts[%d]", e.Index)
		if e.Field != "" {
			msg += "." + e.Field
		}
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

func (e *GenerationSchemaError) Unwrap() error { return e.Err }

// NewSchemaError 整体结构错误
func NewSchemaError(reason string, err error) *GenerationSchemaError {
	return &GenerationSchemaError{Index: -1, Reason: reason, Err: err}
}

// NewEntryError 单个班次字段错误
func NewEntryError(index int, field, reason string) *GenerationSchemaError {
	return &GenerationSchemaError{Index: index, Field: field, Reason: reason}
}

// IsAggregation 判断是否为聚合错误
func IsAggregation(err error) bool {
	var ae *AggregationError
	return errors.As(err, &ae)
}

// IsGenerationSchema 判断是否为生成结构错误
func IsGenerationSchema(err error) bool {
	var ge *GenerationSchemaError
	return errors.As(err, &ge)
}
