package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agentciril/portfolio-chat/models"
	"github.com/agentciril/portfolio-chat/services"
	"github.com/agentciril/portfolio-chat/store"
)

// ProfileController handles profile reads and updates. Updates are written
// to the profile store first and then re-ingested into the corpus; a corpus
// failure is logged but does not fail the request.
type ProfileController struct {
	profiles *store.ProfileStore
	ingest   services.IngestService
	logger   *zap.Logger
}

func NewProfileController(profiles *store.ProfileStore, ingest services.IngestService, logger *zap.Logger) *ProfileController {
	return &ProfileController{profiles: profiles, ingest: ingest, logger: logger}
}

// GetProfile is the handler for GET /api/v1/profile.
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	profile, err := c.profiles.Get(ctx.Request.Context(), ctx.Query("user_id"))
	if err != nil {
		c.logger.Error("failed to fetch profile", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile data"})
		return
	}
	if profile == nil {
		ctx.JSON(http.StatusOK, models.Profile{
			Bio:        "No bio available yet.",
			Skills:     "No skills listed yet.",
			Experience: "No experience listed yet.",
			Projects:   "No projects listed yet.",
			Interests:  "No interests listed yet.",
		})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile is the handler for PUT /api/v1/profile.
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	var profile models.Profile
	if err := ctx.ShouldBindJSON(&profile); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if profile.UserID == "" {
		profile.UserID = "default"
	}

	reqCtx := ctx.Request.Context()
	if err := c.profiles.Upsert(reqCtx, &profile); err != nil {
		c.logger.Error("failed to update profile", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile data"})
		return
	}
	if ok := c.ingest.IngestProfile(reqCtx, &profile, profile.UserID); !ok {
		c.logger.Warn("failed to update vector store for profile",
			zap.String("user_id", profile.UserID))
	}
	ctx.JSON(http.StatusOK, profile)
}
