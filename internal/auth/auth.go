package auth

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/db"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
)

var (
	provider     *oidc.Provider
	verifier     *oidc.IDTokenVerifier
	oauth2Config *oauth2.Config
)

const sessionName = "menuhubsess"

func Init() {
	ctx := context.Background()

	var err error
	provider, err = oidc.NewProvider(ctx, os.Getenv("OIDC_ISSUER"))
	if err != nil {
		log.Fatalf("OIDC provider init error: %v", err)
	}

	verifier = provider.Verifier(&oidc.Config{ClientID: os.Getenv("OIDC_CLIENT_ID")})

	oauth2Config = &oauth2.Config{
		ClientID:     os.Getenv("OIDC_CLIENT_ID"),
		ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email", "phone"},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────────────────────────────────────

// GET /auth/login
func Login(c *gin.Context) {
	state := "rand" // TODO: generate & store real CSRF-safe state if needed
	url := oauth2Config.AuthCodeURL(state)
	c.Redirect(http.StatusFound, url)
}

// GET /auth/callback
func Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code missing"})
		return
	}

	ctx := c.Request.Context()
	oauth2Token, err := oauth2Config.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token exchange failed"})
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no id_token in token response"})
		return
	}

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token verification failed"})
		return
	}

	// Extract claims
	var claims struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone_number"`
	}
	if err := idToken.Claims(&claims); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "claims parse error"})
		return
	}

	// Upsert user; first login bootstraps the restaurant and its default
	// settings rows.
	var user models.User
	if err := db.DB.Where("oidc_id = ?", claims.Sub).First(&user).Error; err != nil {
		user, err = bootstrapAccount(claims.Sub, claims.Name, claims.Email, claims.Phone)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "account setup failed"})
			return
		}
	}

	// Store user-ID in session
	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	_ = sess.Save()

	c.JSON(http.StatusOK, gin.H{"message": "logged in", "user": user})
}

// Middleware: ensures the dashboard user is logged in and injects the
// *models.User and restaurant scope into context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		userID, ok := sess.Get("user_id").(uint)
		if !ok || userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var user models.User
		if err := db.DB.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		// put on context for handlers
		c.Set("user", &user)
		c.Set("restaurant_id", user.RestaurantID)
		c.Next()
	}
}

// RequireAdmin gates the platform-admin surface (subscriber management).
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

func bootstrapAccount(oidcID, name, email, phone string) (models.User, error) {
	restaurantName := name
	if restaurantName == "" {
		restaurantName = strings.Split(email, "@")[0]
	}

	restaurant := models.Restaurant{
		Name:     restaurantName,
		Slug:     slugify(restaurantName),
		Phone:    phone,
		Email:    email,
		Currency: "KES",
	}
	if err := db.DB.Create(&restaurant).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to create restaurant: %w", err)
	}

	user := models.User{
		RestaurantID: restaurant.ID,
		Name:         name,
		Email:        email,
		Phone:        phone,
		Role:         "owner",
		OIDCID:       oidcID,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	db.DB.Create(&models.Subscriber{RestaurantID: restaurant.ID})
	db.DB.Create(&models.PaymentSettings{RestaurantID: restaurant.ID})
	db.DB.Create(&models.NotificationSettings{RestaurantID: restaurant.ID})

	return user, nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
