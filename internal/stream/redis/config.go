package redis

const (
	DefaultRequestStream = "validation-requests"
	DefaultResultStream  = "validation-results"
	DefaultGroup         = "validation-group"
)

type RedisStreamConfig struct {
	RedisAddr     string
	RedisPassword string
	Stream        string
	Group         string
	ConsumerName  string
	// ResultStream receives one outcome per consumed event; empty disables publishing.
	ResultStream  string
}

func NewRedisStreamConfig(redisAddr string, redisPassword string, stream string, group string, consumerName string, resultStream string) *RedisStreamConfig {
	return &RedisStreamConfig{
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		Stream:        stream,
		Group:         group,
		ConsumerName:  consumerName,
		ResultStream:  resultStream,
	}
}
