// Package report renders aggregation results and failures for display.
package report

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/Sternrassler/favlist-duration/pkg/client"
	"github.com/Sternrassler/favlist-duration/pkg/pagination"
)

// Titles and fixed messages shown to the user.
const (
	TitleSuccess = "统计完成"
	TitleFailure = "统计失败"

	MessageGeneric          = "请确保已登录B站并有权访问此收藏夹"
	MessageNetwork          = "网络请求失败"
	MessageInvalidStructure = "无效的API响应结构"
	MessageMalformed        = "无法解析API响应"
)

// Notification display timeouts.
const (
	SuccessTimeout = 8 * time.Second
	FailureTimeout = 5 * time.Second
)

// Notification is a titled message for a popup or console.
type Notification struct {
	Title   string        `json:"title"`
	Text    string        `json:"text"`
	Timeout time.Duration `json:"-"`
}

// Split breaks a number of seconds into hours, minutes and seconds.
func Split(totalSeconds int64) (hours, minutes, seconds int64) {
	hours = totalSeconds / 3600
	minutes = (totalSeconds % 3600) / 60
	seconds = totalSeconds % 60
	return hours, minutes, seconds
}

// Duration formats seconds as "H小时 M分钟 S秒".
func Duration(totalSeconds int64) string {
	h, m, s := Split(totalSeconds)
	return fmt.Sprintf("%d小时 %d分钟 %d秒", h, m, s)
}

// Summary renders the item count and total duration of a result.
func Summary(result pagination.Result) string {
	return fmt.Sprintf("共 %d 个视频\n总时长: %s", result.Count, Duration(result.TotalSeconds))
}

// ErrorMessage renders a failed run for the user, preferring the server message.
func ErrorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MessageGeneric
	}

	switch client.KindOf(err) {
	case client.ErrorKindNetwork:
		return MessageNetwork
	case client.ErrorKindInvalidStructure:
		return MessageInvalidStructure
	case client.ErrorKindMalformed:
		return MessageMalformed
	default:
		return MessageGeneric
	}
}

// Success builds the completion notification.
func Success(result pagination.Result) Notification {
	return Notification{Title: TitleSuccess, Text: Summary(result), Timeout: SuccessTimeout}
}

// Failure builds the failure notification.
func Failure(err error) Notification {
	return Notification{Title: TitleFailure, Text: ErrorMessage(err), Timeout: FailureTimeout}
}
