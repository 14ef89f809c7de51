package models

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// Error 定义了币安API返回的错误信息结构
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("API Error: code=%d, msg=%s", e.Code, e.Msg)
}

// ErrPrecisionConfig marks a symbol whose tick/step filters are missing or
// unusable. The symbol's checks are skipped for the cycle; nothing else aborts.
var ErrPrecisionConfig = errors.New("precision: missing or invalid symbol filter")

// ErrDataGap marks a strategy evaluation that lacked the history its lookback
// window needs. The evaluation is skipped for that bar, never escalated.
var ErrDataGap = errors.New("insufficient bar history for lookback window")

// IsExchangeRejection reports whether the error is an explicit refusal from
// the exchange (order rejected, unknown order, bad params). Rejections leave
// local state untouched and become eligible again on the next poll cycle.
func IsExchangeRejection(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr)
}

// IsTransient reports whether the error looks like a connection or TLS
// failure that a later poll cycle may not see again. Transient failures abort
// only the current pair's check and mutate no state.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var recordErr tls.RecordHeaderError
	return errors.As(err, &recordErr)
}
