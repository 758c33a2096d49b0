package services

import "errors"

// 业务错误，web 层用 errors.Is 映射为 HTTP 状态码
var (
	// ErrMatchNotFound 比赛不存在
	ErrMatchNotFound = errors.New("match not found")

	// ErrSubmissionClosed 比赛已不在 scheduled 状态，预测窗口永久关闭
	ErrSubmissionClosed = errors.New("match no longer open for predictions")

	// ErrWindowExpired 已到开球时间，即使扫描还没把状态推到 live
	ErrWindowExpired = errors.New("kickoff time has passed")

	// ErrMatchNotStarted 比赛还未开球，不能录入比分
	ErrMatchNotStarted = errors.New("match has not started yet")
)
