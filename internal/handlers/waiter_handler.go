package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/db"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/events"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
)

type CreateWaiterCallRequest struct {
	TableNumber string `json:"table_number" binding:"required"`
}

func CreateWaiterCall(c *gin.Context) {
	restaurantID, ok := restaurantParam(c)
	if !ok {
		return
	}

	var req CreateWaiterCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	call := models.WaiterCall{
		RestaurantID: restaurantID,
		TableNumber:  req.TableNumber,
		Status:       models.WaiterCallOpen,
	}
	if err := db.DB.Create(&call).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create waiter call"})
		return
	}

	go publishWaiterCall(call)

	c.JSON(http.StatusCreated, call)
}

func AckWaiterCall(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var callID uint
	if _, err := fmt.Sscan(c.Param("id"), &callID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid waiter call id"})
		return
	}

	var call models.WaiterCall
	if err := db.DB.Where("id = ? AND restaurant_id = ?", callID, restaurantID).First(&call).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "waiter call not found"})
		return
	}

	now := time.Now()
	if err := db.DB.Model(&call).Updates(map[string]interface{}{
		"status":   models.WaiterCallAcked,
		"acked_at": &now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to ack waiter call"})
		return
	}

	c.JSON(http.StatusOK, call)
}

func ListWaiterCalls(c *gin.Context) {
	restaurantID := c.GetUint("restaurant_id")

	var calls []models.WaiterCall
	err := db.DB.Where("restaurant_id = ? AND status = ?", restaurantID, models.WaiterCallOpen).
		Order("created_at").Find(&calls).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load waiter calls"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"calls": calls})
}

func publishWaiterCall(call models.WaiterCall) {
	if eventPublisher == nil {
		return
	}

	evt := events.StaffEvent{
		EventType:    events.EventWaiterCalled,
		OccurredAt:   time.Now(),
		RestaurantID: call.RestaurantID,
		TableNumber:  call.TableNumber,
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Printf("Failed to encode waiter event for table %s: %v\n", call.TableNumber, err)
		return
	}
	if err := eventPublisher.Publish(context.Background(), events.WaiterTopic(call.RestaurantID), payload); err != nil {
		log.Printf("Failed to publish waiter event for table %s: %v\n", call.TableNumber, err)
	}
}
