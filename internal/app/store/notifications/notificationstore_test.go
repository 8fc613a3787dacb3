package notificationstore_test

import (
	"testing"

	notificationstore "github.com/bearenergy/dealflow/internal/app/store/notifications"
	"github.com/bearenergy/dealflow/internal/domain/models"
	"github.com/bearenergy/dealflow/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateAndCountUnread(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := notificationstore.New(db)
	userID := primitive.NewObjectID()

	for i := 0; i < 3; i++ {
		if _, err := store.Create(ctx, models.Notification{
			UserID:  userID,
			Type:    models.NotificationTypeProjectAdded,
			Title:   "New project available",
			Message: "A project has been shared with you.",
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	n, err := store.CountUnread(ctx, userID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if n != 3 {
		t.Errorf("unread count: got %d, want 3", n)
	}
}

func TestMarkRead_ScopedToOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := notificationstore.New(db)
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	created, err := store.Create(ctx, models.Notification{
		UserID: owner,
		Type:   models.NotificationTypeProjectAdded,
		Title:  "New project available",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Another user cannot clear the owner's notification.
	if err := store.MarkRead(ctx, created.ID, other); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	n, err := store.CountUnread(ctx, owner)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if n != 1 {
		t.Errorf("unread count after foreign MarkRead: got %d, want 1", n)
	}

	if err := store.MarkRead(ctx, created.ID, owner); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	n, err = store.CountUnread(ctx, owner)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if n != 0 {
		t.Errorf("unread count after owner MarkRead: got %d, want 0", n)
	}
}

func TestMarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := notificationstore.New(db)
	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	for i := 0; i < 2; i++ {
		if _, err := store.Create(ctx, models.Notification{UserID: userID, Type: models.NotificationTypeProjectAdded}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if _, err := store.Create(ctx, models.Notification{UserID: otherID, Type: models.NotificationTypeProjectAdded}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.MarkAllRead(ctx, userID); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}

	n, err := store.CountUnread(ctx, userID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if n != 0 {
		t.Errorf("unread count: got %d, want 0", n)
	}

	// Other users' notifications are untouched.
	n, err = store.CountUnread(ctx, otherID)
	if err != nil {
		t.Fatalf("CountUnread failed: %v", err)
	}
	if n != 1 {
		t.Errorf("other user's unread count: got %d, want 1", n)
	}
}
