package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	LoggerKey    ContextKey = "logger"
	RequestStart ContextKey = "requestStart"
	ActorRoleKey ContextKey = "actorRole"
	AppKey       ContextKey = "app"
)

var Validate = validator.New()
