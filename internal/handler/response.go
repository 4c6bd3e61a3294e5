// Package handler binds HTTP requests to the service layer and normalizes
// every response into a {code, msg, data} envelope.
package handler

import (
	"net/http"

	"kiu_social_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Response is the uniform envelope for every API reply.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

func HandleSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: errorx.CodeSuccess, Msg: "success", Data: data})
}

// HandleCreated is HandleSuccess with a 201 status, for resource creation.
func HandleCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: errorx.CodeSuccess, Msg: "success", Data: data})
}

// httpStatus maps a business code onto the transport status.
func httpStatus(code int) int {
	switch code {
	case errorx.CodeInvalidParam, errorx.CodeUserExist, errorx.CodeInvalidPassword:
		return http.StatusBadRequest
	case errorx.CodeUnauthorized:
		return http.StatusUnauthorized
	case errorx.CodeForbidden:
		return http.StatusForbidden
	case errorx.CodeNotFound, errorx.CodeUserNotExist:
		return http.StatusNotFound
	case errorx.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// HandleError renders a business error; unknown errors are masked as a
// generic server failure and logged.
func HandleError(c *gin.Context, err error) {
	code := errorx.GetCode(err)
	msg := err.Error()
	if code == errorx.CodeServerBusy || code == errorx.CodeDBError || code == errorx.CodeCacheError {
		zap.L().Error("request failed",
			zap.String("path", c.Request.URL.Path), zap.Error(err))
		msg = "server busy, please retry later"
	}
	c.JSON(httpStatus(code), Response{Code: code, Msg: msg})
}

// HandleParamError renders binding failures, translating validator errors
// into readable field messages.
func HandleParamError(c *gin.Context, err error) {
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		c.JSON(http.StatusBadRequest, Response{
			Code: errorx.CodeInvalidParam,
			Msg:  "invalid request parameters",
			Data: RemoveTopStruct(fieldErrs.Translate(GetTranslator())),
		})
		return
	}
	c.JSON(http.StatusBadRequest, Response{Code: errorx.CodeInvalidParam, Msg: "invalid request parameters"})
}
