// Package projectgrant implements project distribution: granting an investor
// tiered access to a project and notifying them in-app and by email.
package projectgrant

import (
	"context"
	"errors"
	"fmt"

	accessstore "github.com/bearenergy/dealflow/internal/app/store/access"
	notificationstore "github.com/bearenergy/dealflow/internal/app/store/notifications"
	projectstore "github.com/bearenergy/dealflow/internal/app/store/projects"
	userstore "github.com/bearenergy/dealflow/internal/app/store/users"
	"github.com/bearenergy/dealflow/internal/app/system/mailer"
	"github.com/bearenergy/dealflow/internal/app/system/txn"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrNotInvestor is returned when the target user does not hold the
	// investor role.
	ErrNotInvestor = errors.New("target user is not an investor")

	// ErrProjectNotActive is returned when the project is disabled for
	// distribution.
	ErrProjectNotActive = errors.New("project is not active")
)

// Granter runs the distribution workflow. Mail is optional; when nil, only
// the in-app notification is created.
type Granter struct {
	DB           *mongo.Database
	Mail         *mailer.Mailer
	Log          *zap.Logger
	DashboardURL string
}

// Grant gives the investor tiered access to the project, records an in-app
// notification, and sends a courtesy email. The grant upserts on the
// (investor, project) pair, so repeating a distribution adjusts the tier
// instead of duplicating access.
//
// Email failure never fails the grant: the access document and notification
// are the durable record, delivery is best effort.
func (g *Granter) Grant(ctx context.Context, investorUserID, projectID primitive.ObjectID, tier int, grantedByID primitive.ObjectID) error {
	users := userstore.New(g.DB)
	projects := projectstore.New(g.DB)
	access := accessstore.New(g.DB)
	notifications := notificationstore.New(g.DB)

	investor, err := users.GetByID(ctx, investorUserID)
	if err != nil {
		return err
	}
	if investor.Role != models.RoleInvestor {
		return ErrNotInvestor
	}

	project, err := projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.UploadStatus != models.StatusActive {
		return ErrProjectNotActive
	}

	// The grant and its notification are written together. On deployments
	// without transaction support the writes run sequentially; a notification
	// failure then leaves the grant standing but is still surfaced to the
	// caller, because the investor would otherwise never learn about it
	// in-app.
	pid := projectID
	err = txn.Run(ctx, g.DB, g.Log, func(ctx context.Context) error {
		if err := access.Upsert(ctx, investorUserID, projectID, tier, grantedByID); err != nil {
			return err
		}
		_, err := notifications.Create(ctx, models.Notification{
			UserID:    investorUserID,
			Type:      models.NotificationTypeProjectAdded,
			Title:     "New project available",
			Message:   fmt.Sprintf("%s has been shared with you.", project.ProjectName),
			ProjectID: &pid,
		})
		return err
	})
	if err != nil {
		return err
	}

	g.sendEmail(investor, project, tier)
	return nil
}

func (g *Granter) sendEmail(investor *models.User, project *models.ProjectUpload, tier int) {
	if g.Mail == nil || investor.Email == "" {
		return
	}

	msg := mailer.BuildProjectAddedEmail(mailer.ProjectAddedEmailData{
		SiteName:     models.DefaultSiteName,
		ProjectName:  project.ProjectName,
		Technology:   project.TechnologyType,
		Location:     project.Location,
		CapacityMW:   project.CapacityMW,
		AccessTier:   models.EffectiveTier(tier),
		DashboardURL: g.DashboardURL,
	})
	msg.To = investor.Email

	if err := g.Mail.Send(msg); err != nil {
		g.Log.Warn("project-added email failed; grant and notification stand",
			zap.String("investor_id", investor.ID.Hex()),
			zap.String("project_id", project.ID.Hex()),
			zap.Error(err))
	}
}
