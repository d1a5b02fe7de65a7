// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// データセットの形状・型・不変性違反から、バックエンドのジョブ失敗までを
// 構造化されたエラー型として表現します。
package errors

import (
	"fmt"
	"log"
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
		log.Printf("scicv-Warning: %v\n", w)
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

// FoldCapWarning は組み合わせ数が上限を超え、fold をサンプリングした場合の警告です。
type FoldCapWarning struct {
	Strategy string
	Total    float64 // 組み合わせ総数（巨大になり得るため float64）
	Cap      int
}

func (w *FoldCapWarning) Error() string {
	return fmt.Sprintf("%s: %.6g combinations exceed the fold cap of %d; sampling %d folds at random",
		w.Strategy, w.Total, w.Cap, w.Cap)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *FoldCapWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("strategy", w.Strategy).
		Float64("total", w.Total).
		Int("cap", w.Cap).
		Str("type", "FoldCapWarning")
}

// NewFoldCapWarning は新しいFoldCapWarningを作成します。
func NewFoldCapWarning(strategy string, total float64, cap int) *FoldCapWarning {
	return &FoldCapWarning{Strategy: strategy, Total: total, Cap: cap}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// ShapeError は行・列の次元が一致しない場合のエラーです。
// 構築時の行幅の不一致、マージ時の列数の不一致、ラベル数の不一致で発生します。
type ShapeError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0: rows, 1: columns
}

func (e *ShapeError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("scicv: %s: shape mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ShapeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "ShapeError")
}

// NewShapeError は新しいShapeErrorを作成し、スタックトレースを付与します。
func NewShapeError(op string, expected, got, axis int) error {
	return errors.WithStack(&ShapeError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// FeatureTypeError は特徴量やラベルの型が不正な場合、
// またはラベル付き・ラベルなしデータセットを混在させた場合のエラーです。
type FeatureTypeError struct {
	Op     string
	Row    int
	Column int
	Found  string
}

func (e *FeatureTypeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("scicv: %s: %s", e.Op, e.Found)
	}
	return fmt.Sprintf("scicv: %s: feature must be a string or numeric type, %s found at row %d column %d",
		e.Op, e.Found, e.Row, e.Column)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *FeatureTypeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("row", e.Row).
		Int("column", e.Column).
		Str("found", e.Found).
		Str("type", "FeatureTypeError")
}

// NewFeatureTypeError は不正な値の型を報告するFeatureTypeErrorを作成します。
func NewFeatureTypeError(op string, row, column int, value interface{}) error {
	return errors.WithStack(&FeatureTypeError{Op: op, Row: row, Column: column, Found: fmt.Sprintf("%T", value)})
}

// NewLabelMismatchError はラベルの有無が一致しない場合のFeatureTypeErrorを作成します。
func NewLabelMismatchError(op string) error {
	return errors.WithStack(&FeatureTypeError{
		Op: op, Row: -1, Column: -1,
		Found: "cannot combine a labeled dataset with an unlabeled one",
	})
}

// InvalidArgumentError は入力パラメータが許容範囲外の場合のエラーです。
type InvalidArgumentError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("scicv: invalid argument '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidArgumentError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "InvalidArgumentError")
}

// NewInvalidArgumentError は新しいInvalidArgumentErrorを作成し、スタックトレースを付与します。
func NewInvalidArgumentError(param, reason string, value interface{}) error {
	return errors.WithStack(&InvalidArgumentError{ParamName: param, Reason: reason, Value: value})
}

// IndexError は行・列のインデックスが範囲外の場合のエラーです。
type IndexError struct {
	Op    string
	Index int
	Len   int
	Axis  int
}

func (e *IndexError) Error() string {
	what := "column"
	if e.Axis == 0 {
		what = "row"
	}
	return fmt.Sprintf("scicv: %s: %s index %d out of range [0, %d)", e.Op, what, e.Index, e.Len)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *IndexError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("index", e.Index).
		Int("len", e.Len).
		Int("axis", e.Axis).
		Str("type", "IndexError")
}

// NewIndexError は新しいIndexErrorを作成し、スタックトレースを付与します。
func NewIndexError(op string, index, length, axis int) error {
	return errors.WithStack(&IndexError{Op: op, Index: index, Len: length, Axis: axis})
}

// ImmutabilityError は不変なデータセットを直接書き換えようとした場合のエラーです。
type ImmutabilityError struct {
	Op string
}

func (e *ImmutabilityError) Error() string {
	return fmt.Sprintf("scicv: %s: datasets cannot be mutated directly", e.Op)
}

// NewImmutabilityError は新しいImmutabilityErrorを作成し、スタックトレースを付与します。
func NewImmutabilityError(op string) error {
	return errors.WithStack(&ImmutabilityError{Op: op})
}

// NotTrainedError はモデルが未学習の状態で `Predict` を呼び出した場合のエラーです。
type NotTrainedError struct {
	ModelName string
	Method    string
}

func (e *NotTrainedError) Error() string {
	return fmt.Sprintf("scicv: %s: this estimator is not trained yet. Call Train() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotTrainedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotTrainedError")
}

// NewNotTrainedError は新しいNotTrainedErrorを作成し、スタックトレースを付与します。
func NewNotTrainedError(modelName, method string) error {
	return errors.WithStack(&NotTrainedError{ModelName: modelName, Method: method})
}

// EmptyResultError は集計対象の fold が一つも無い場合のエラーです。
type EmptyResultError struct {
	Op string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("scicv: %s: no folds were produced, nothing to aggregate", e.Op)
}

// Is は ErrEmptyResult との比較を可能にします。
func (e *EmptyResultError) Is(target error) bool {
	return target == ErrEmptyResult
}

// NewEmptyResultError は新しいEmptyResultErrorを作成し、スタックトレースを付与します。
func NewEmptyResultError(op string) error {
	return errors.WithStack(&EmptyResultError{Op: op})
}

// JobError はバックエンドのジョブが失敗した場合のエラーです。
// 失敗したジョブのインデックスと元のエラーを保持します。
type JobError struct {
	Index int
	Err   error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("scicv: job %d failed: %v", e.Index, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *JobError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("job_index", e.Index).
		AnErr("cause", e.Err).
		Str("type", "JobError")
}

// NewJobError は新しいJobErrorを作成し、スタックトレースを付与します。
func NewJobError(index int, err error) error {
	return errors.WithStack(&JobError{Index: index, Err: err})
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

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// スコアが NaN や Inf になった場合などに発生します。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "score"）
	Values    []float64 // 問題のある値
	Iteration int       // 発生した fold 番号
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("scicv: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	return errors.WithStack(&NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	})
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyResult は集計対象が空の場合のエラーです。
	ErrEmptyResult = New("empty result")

	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
