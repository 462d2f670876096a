package response

import "github.com/gin-gonic/gin"

type Resp struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// New 构造函数（保证 data 不为 null）
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Success: code == CodeOK, Code: code, Message: msg, Data: data}
}

// OK 成功响应，msg 为空用默认文案
func OK(data interface{}, msg ...string) Resp {
	m := CodeMsgMap[CodeOK]
	if len(msg) > 0 && msg[0] != "" {
		m = msg[0]
	}
	return New(CodeOK, m, data)
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, struct{}{})
}

// Abort 中间件用：HTTP 状态码与 code 一致
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Error(status, msg))
}
