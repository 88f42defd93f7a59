package internal

import "time"

type Config struct {
	Host              string        `env:"HOST,default=localhost"`
	Port              int           `env:"PORT,default=8080"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	VerifyTimeout     time.Duration `env:"VERIFY_TIMEOUT,default=2s"`
	HandshakeTimeout  time.Duration `env:"HANDSHAKE_TIMEOUT,default=5s"`
	DirectoryTimeout  time.Duration `env:"DIRECTORY_TIMEOUT,default=2s"`
	SendBufferSize    int           `env:"SEND_BUFFER_SIZE,default=64"`
}
