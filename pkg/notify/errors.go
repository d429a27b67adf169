package notify

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrEmptyChannel                 = errors.New("empty pub/sub channel name")
	ErrFailedToPublish              = errors.New("failed to publish event")
	ErrFailedToEncodeEvent          = errors.New("failed to encode event")
	ErrFailedToDecodeEvent          = errors.New("failed to decode event")
)
