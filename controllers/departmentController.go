package controllers

import (
	"context"
	"net/http"
	"time"

	"civicpulse-be/models"
	"civicpulse-be/repositories"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DepartmentController manages the responder department registry.
type DepartmentController struct {
	Departments repositories.DepartmentRepo
}

func NewDepartmentController(departments repositories.DepartmentRepo) *DepartmentController {
	return &DepartmentController{Departments: departments}
}

// Create registers a new department. Admin only (route middleware).
func (dc *DepartmentController) Create(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required,max=50"`
		Description string `json:"description,omitempty"`
		Head        string `json:"head,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dept := models.Department{
		Name:        input.Name,
		Description: input.Description,
	}
	if input.Head != "" {
		headID, err := primitive.ObjectIDFromHex(input.Head)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid head user ID"})
			return
		}
		dept.Head = &headID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := dc.Departments.NameExists(ctx, input.Name)
	if err != nil {
		logrus.WithError(err).Error("failed to check department name")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department with this name already exists"})
		return
	}

	if err := dc.Departments.Insert(ctx, &dept); err != nil {
		logrus.WithError(err).Error("failed to persist department")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create department"})
		return
	}

	c.JSON(http.StatusCreated, dept)
}

// List returns all departments sorted by name.
func (dc *DepartmentController) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	depts, err := dc.Departments.FindAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve departments"})
		return
	}

	c.JSON(http.StatusOK, depts)
}
