package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/foodhub/utils"
)

// paramID reads a positive integer path parameter.
func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.Validation("invalid " + name)
	}
	return uint(id), nil
}

// bindJSON decodes the body, reporting failures as validation errors.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return utils.Validation(err.Error())
	}
	return nil
}
