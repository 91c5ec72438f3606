package handlers

import (
	"errors"
	"net/http"

	"learnhub/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Единый маппинг доменных ошибок в HTTP. Любая мутация отвечает явно:
// успех или ошибка, молчаливых no-op нет.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Required fields are missing or invalid"})
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, domain.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not permitted: you are not the owner"})
	case errors.Is(err, domain.ErrUpgradeRequired):
		// Фронт по этому коду уводит на страницу тарифов
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Membership upgrade required", "redirect": "/pricing"})
	case errors.Is(err, domain.ErrNotEnrolled):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not enrolled in this course"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, domain.ErrProfileAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Email or username already taken"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ID текущего пользователя из контекста. uuid.Nil — аноним
func currentUser(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetString("userId"))
	if err != nil {
		return uuid.Nil
	}
	return id
}
