package app

import "github.com/gin-gonic/gin"

// Envelope 所有响应统一为 {status, message, data}
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// EmptyData 渲染成 []
func EmptyData() []any { return []any{} }

func Respond(c *gin.Context, status int, message string, data any) {
	if data == nil {
		data = EmptyData()
	}
	c.JSON(status, Envelope{Status: status, Message: message, Data: data})
}

func Abort(c *gin.Context, status int, message string, data any) {
	if data == nil {
		data = EmptyData()
	}
	c.AbortWithStatusJSON(status, Envelope{Status: status, Message: message, Data: data})
}
