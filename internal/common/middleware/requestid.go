package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

// RequestIDHeader связывает строки access-лога gateway и сервисов за ним.
const RequestIDHeader = "X-Request-ID"

// RequestID берёт id из входящего заголовка или выдаёт новый uuid
// и возвращает его в ответе.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:    RequestIDHeader,
		Generator: uuid.NewString,
	})
}
