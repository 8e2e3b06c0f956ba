package common

import "github.com/gin-gonic/gin"

type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func Ok(c *gin.Context, data any) {
	c.JSON(200, envelope{Code: 0, Data: data})
}

func Fail(c *gin.Context, httpStatus, code int, msg string) {
	c.JSON(httpStatus, envelope{Code: code, Msg: msg})
}
