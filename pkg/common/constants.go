package common

const (
	RedisKeyCurrentPrice = "current_price:%s"

	DateFormat = "2006-01-02"
)
