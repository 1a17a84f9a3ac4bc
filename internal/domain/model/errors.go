package model

import "errors"

var (
	// アクティブでない注文への変更、または空の注文の完了
	ErrInvalidTransition = errors.New("invalid transition")

	// 別のアクティブ注文を持つテーブルへの紐付け
	ErrAlreadyOccupied = errors.New("table already occupied")

	// テーブルが存在しない/終了済みの注文を指している
	ErrStaleReference = errors.New("stale order reference")

	// 変更処理の中から別の変更処理を呼んだ
	ErrReentrantMutation = errors.New("reentrant mutation")

	// 入力不正
	ErrValidation = errors.New("validation error")
)
