package handler

import (
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/response"
	"Blips/internal/pkg/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID zero for anonymous requests
func currentUserID(c *gin.Context) primitive.ObjectID {
	v, ok := c.Get(consts.UserIDKey)
	if !ok {
		return primitive.NilObjectID
	}
	id, _ := v.(primitive.ObjectID)
	return id
}

func isAdmin(c *gin.Context) bool {
	for _, role := range c.GetStringSlice(consts.RolesKey) {
		if role == consts.RoleAdmin {
			return true
		}
	}
	return false
}

// bind decodes the request into req and runs its validate tags, writing the error reply on failure
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBind(req); err != nil {
		response.Error(c, err)
		return false
	}
	if err := util.ValidateDTO(req); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.Error(c, err)
		return false
	}
	if err := util.ValidateDTO(req); err != nil {
		response.Error(c, err)
		return false
	}
	return true
}
