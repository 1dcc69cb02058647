// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 読み込み・スキーマ・設定の各段階で発生する失敗を構造化されたエラー型として表現します。
package errors

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("prcurve-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// IgnoredColumnsWarning は寛容モードのスキーマ検証で余分な列が無視された場合の警告です。
type IgnoredColumnsWarning struct {
	Source  string
	Columns []string
}

func (w *IgnoredColumnsWarning) Error() string {
	return fmt.Sprintf("%s: ignoring extra columns [%s]", w.Source, strings.Join(w.Columns, ", "))
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *IgnoredColumnsWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("source", w.Source).
		Strs("columns", w.Columns).
		Str("type", "IgnoredColumnsWarning")
}

// NewIgnoredColumnsWarning は新しいIgnoredColumnsWarningを作成します。
func NewIgnoredColumnsWarning(source string, columns []string) *IgnoredColumnsWarning {
	return &IgnoredColumnsWarning{Source: source, Columns: columns}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// SchemaError は読み込んだ表の列構成が要求を満たさない場合のエラーです。
// Missing は欠けている必須列、Unexpected は厳格モードで許可されない列です。
type SchemaError struct {
	Source     string
	Policy     string
	Missing    []string
	Unexpected []string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	if e.Policy == "strict" {
		fmt.Fprintf(&b, "prcurve: schema: %s must contain exactly the columns 'Precision' and 'Recall'", e.Source)
	} else {
		fmt.Fprintf(&b, "prcurve: schema: %s must contain the columns 'Precision' and 'Recall'", e.Source)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, " (missing: %s)", strings.Join(e.Missing, ", "))
	}
	if len(e.Unexpected) > 0 {
		fmt.Fprintf(&b, " (unexpected: %s)", strings.Join(e.Unexpected, ", "))
	}
	return b.String()
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SchemaError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Str("policy", e.Policy).
		Strs("missing", e.Missing).
		Strs("unexpected", e.Unexpected).
		Str("type", "SchemaError")
}

// NewSchemaError は新しいSchemaErrorを作成し、スタックトレースを付与します。
func NewSchemaError(source, policy string, missing, unexpected []string) error {
	err := &SchemaError{Source: source, Policy: policy, Missing: missing, Unexpected: unexpected}
	return errors.WithStack(err)
}

// IOError はソースが読めない、または表形式として解析できない場合のエラーです。
type IOError struct {
	Op     string
	Source string
	Err    error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prcurve: %s %s: %v", e.Op, e.Source, e.Err)
	}
	return fmt.Sprintf("prcurve: %s %s", e.Op, e.Source)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *IOError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("source", e.Source).
		AnErr("cause", e.Err).
		Str("type", "IOError")
}

// NewIOError は新しいIOErrorを作成し、スタックトレースを付与します。
func NewIOError(op, source string, err error) error {
	ioErr := &IOError{Op: op, Source: source, Err: err}
	return errors.WithStack(ioErr)
}

// ConfigurationError はラベルから導出したファミリーにカラーランプが登録されていない等、
// 実行前に検出される致命的な設定エラーです。
type ConfigurationError struct {
	Label  string
	Family string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("prcurve: configuration: label '%s' (family '%s'): %s", e.Label, e.Family, e.Reason)
	}
	return fmt.Sprintf("prcurve: configuration: family '%s': %s", e.Family, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("label", e.Label).
		Str("family", e.Family).
		Str("reason", e.Reason).
		Str("type", "ConfigurationError")
}

// NewConfigurationError は新しいConfigurationErrorを作成し、スタックトレースを付与します。
func NewConfigurationError(label, family, reason string) error {
	err := &ConfigurationError{Label: label, Family: family, Reason: reason}
	return errors.WithStack(err)
}

// ValidationError は設定パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("prcurve: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrMissingHeader は表にヘッダー行が存在しない場合のエラーです。
	ErrMissingHeader = New("missing header row")

	// ErrMalformedValue は数値として解釈できないセルがあった場合のエラーです。
	ErrMalformedValue = New("malformed numeric value")
)
