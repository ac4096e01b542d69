package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/electromart/pkg/authz"
	apperrors "github.com/xiebiao/electromart/pkg/errors"
	"github.com/xiebiao/electromart/pkg/response"
)

// bindFailed 参数绑定失败
func bindFailed(c *gin.Context, err error) {
	response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数格式错误: "+err.Error())
}

// pathID 解析路径中的ID参数，失败时已写入响应
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.ErrInvalidParams.WithField(name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

// targetCustomer 请求作用的客户
// 未指定时为操作者本人；客户指定别人时由用例层拒绝
func targetCustomer(actor authz.Actor, requested *uint) uint {
	if requested != nil && *requested > 0 {
		return *requested
	}
	return actor.ID
}
