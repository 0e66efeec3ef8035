package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetJobID(ctx *gin.Context) (uint, error) {
	var err error

	jobIDStr := ctx.Param("job_id")

	if jobIDStr == "" {
		return 0, errors.New("Job ID not found")
	}

	jobID, err := strconv.ParseUint(jobIDStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid Job ID")
	}

	return uint(jobID), nil
}

func GetUserIDParam(ctx *gin.Context) (uint, error) {
	var err error

	userIDStr := ctx.Param("user_id")

	if userIDStr == "" {
		return 0, errors.New("User ID not found")
	}

	userID, err := strconv.ParseUint(userIDStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid User ID")
	}

	return uint(userID), nil
}
