// Package dealassign implements the deal distribution workflow: fanning a
// deal out to every active investor mandate of a chosen introducer and
// moving the deal to its assigned state.
package dealassign

import (
	"context"
	"errors"
	"time"

	assignmentstore "github.com/bearenergy/dealflow/internal/app/store/assignments"
	dealstore "github.com/bearenergy/dealflow/internal/app/store/deals"
	introducerstore "github.com/bearenergy/dealflow/internal/app/store/introducers"
	mandatestore "github.com/bearenergy/dealflow/internal/app/store/mandates"
	"github.com/bearenergy/dealflow/internal/app/system/txn"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrDealNotActive is returned when the deal has already been assigned,
	// completed, or cancelled. Re-assigning would duplicate the workflow.
	ErrDealNotActive = errors.New("deal is not active and cannot be assigned")

	// ErrIntroducerNotActive is returned when the chosen introducer has been
	// disabled. The assignment form only lists active introducers, but the
	// submission revalidates in case the profile changed in between.
	ErrIntroducerNotActive = errors.New("introducer is not active")

	// ErrNoActiveMandates is returned when the chosen introducer has no
	// active mandates to receive the deal.
	ErrNoActiveMandates = errors.New("introducer has no active mandates")
)

// Result reports what an assignment run produced.
type Result struct {
	Deal        models.Deal
	Introducer  models.Introducer
	Assignments []models.DealAssignment
}

// Assign creates one DealAssignment per active mandate of the introducer and
// marks the deal assigned. Each assignment copies the introducer's commission
// rate at assignment time, so later rate changes do not retroactively alter
// terms.
//
// The fan-out and the deal status change commit atomically when the
// deployment supports transactions. Otherwise the writes run sequentially
// and inserted assignments are removed if the status change fails.
func Assign(ctx context.Context, db *mongo.Database, log *zap.Logger, dealID, introducerID, assignedByID primitive.ObjectID) (Result, error) {
	var res Result

	deals := dealstore.New(db)
	introducers := introducerstore.New(db)
	mandates := mandatestore.New(db)
	assignments := assignmentstore.New(db)

	deal, err := deals.GetByID(ctx, dealID)
	if err != nil {
		return res, err
	}
	if deal.Status != models.DealStatusActive {
		return res, ErrDealNotActive
	}

	introducer, err := introducers.GetByID(ctx, introducerID)
	if err != nil {
		return res, err
	}
	if introducer.Status != models.StatusActive {
		return res, ErrIntroducerNotActive
	}

	activeMandates, err := mandates.ListActiveByIntroducer(ctx, introducerID)
	if err != nil {
		return res, err
	}
	if len(activeMandates) == 0 {
		return res, ErrNoActiveMandates
	}

	commission := introducer.CommissionRate
	if commission <= 0 {
		commission = models.DefaultCommissionRate
	}

	now := time.Now()
	created := make([]models.DealAssignment, 0, len(activeMandates))
	for _, m := range activeMandates {
		created = append(created, models.DealAssignment{
			ID:                   primitive.NewObjectID(),
			DealID:               dealID,
			IntroducerID:         introducerID,
			MandateID:            m.ID,
			Status:               models.AssignmentStatusAssigned,
			CommissionPercentage: commission,
			AssignedAt:           now,
			AssignedByID:         assignedByID,
		})
	}

	docs := make([]interface{}, len(created))
	for i := range created {
		docs[i] = created[i]
	}

	writeAll := func(ctx context.Context) error {
		if _, err := assignments.Collection().InsertMany(ctx, docs); err != nil {
			return err
		}
		return deals.SetStatus(ctx, dealID, models.DealStatusAssigned)
	}

	err = txn.WithTransaction(ctx, db.Client(), func(sc mongo.SessionContext) error {
		return writeAll(sc)
	})
	if err != nil && txn.IsNotSupported(err) {
		log.Warn("transactions not supported; assigning deal with sequential writes",
			zap.String("deal_id", dealID.Hex()),
			zap.Error(err))

		if err = writeAll(ctx); err != nil {
			// Compensate: drop whatever the fan-out inserted so the deal
			// stays assignable.
			if _, delErr := assignments.DeleteByDeal(ctx, dealID); delErr != nil {
				log.Error("compensation cleanup failed after partial assignment",
					zap.String("deal_id", dealID.Hex()),
					zap.Error(delErr))
			}
			return res, err
		}
	} else if err != nil {
		return res, err
	}

	deal.Status = models.DealStatusAssigned
	res.Deal = *deal
	res.Introducer = *introducer
	res.Assignments = created
	return res, nil
}
