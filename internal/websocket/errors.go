package websocket

import "errors"

var ErrTokenBlacklisted = errors.New("token has been revoked")
