package global

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// InternalLogger logs failures that should never happen in normal circumstances
var InternalLogger = newLogger()

// MonitorLogger logs client errors and degraded dependencies
var MonitorLogger = newLogger()

// Validator validates incoming bodys of data
var Validator = validator.New()

// MessagePageSize is the fixed amount of messages per inbox/outbox page
const MessagePageSize = 4

// UserPageSize is the fixed amount of users per user listing page
const UserPageSize = 5

// FollowPageSize is the fixed amount of users per following/followers page
const FollowPageSize = 4

// DefaultStoreTimeout bounds a single request's store calls when config omits it
var DefaultStoreTimeout time.Duration = 5 * time.Second

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	return logger
}
