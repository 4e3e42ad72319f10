package database

import (
	"context"
	"testing"

	"lifelink-api-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func donationDoc(id primitive.ObjectID, requester, status string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "requesterId", Value: requester},
		{Key: "recipientName", Value: "Karim"},
		{Key: "donationStatus", Value: status},
	}
}

// noMatch is a findAndModify reply for a filter that matched nothing.
func noMatch() bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil})
}

func TestDonationStore_Transition(t *testing.T) {
	mt := newMockT(t)
	requester := primitive.NewObjectID().Hex()

	mt.Run("accept from pending", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		doc := donationDoc(id, requester, models.DonationInProgress)
		doc = append(doc, bson.E{Key: "donorInfo", Value: bson.D{{Key: "name", Value: "Vee"}, {Key: "email", Value: "vee@example.com"}}})
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc}))
		store := NewDonationStore(mt.DB)

		tr := models.AcceptDonation
		tr.Donor = &models.DonorInfo{Name: "Vee", Email: "vee@example.com"}
		updated, err := store.Transition(context.Background(), id.Hex(), tr)

		require.NoError(mt, err)
		assert.Equal(mt, models.DonationInProgress, updated.DonationStatus)
		require.NotNil(mt, updated.DonorInfo)
		assert.Equal(mt, "Vee", updated.DonorInfo.Name)
	})

	mt.Run("second accept conflicts", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			noMatch(),
			mtest.CreateCursorResponse(0, ns(mt, DonationRequestsCollection), mtest.FirstBatch,
				donationDoc(id, requester, models.DonationInProgress)),
		)
		store := NewDonationStore(mt.DB)

		_, err := store.Transition(context.Background(), id.Hex(), models.AcceptDonation)
		assert.ErrorIs(mt, err, ErrConflict)
		assert.Contains(mt, err.Error(), "inprogress")
	})

	mt.Run("unknown id", func(mt *mtest.T) {
		mt.AddMockResponses(
			noMatch(),
			mtest.CreateCursorResponse(0, ns(mt, DonationRequestsCollection), mtest.FirstBatch),
		)
		store := NewDonationStore(mt.DB)

		_, err := store.Transition(context.Background(), primitive.NewObjectID().Hex(), models.AcceptDonation)
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("owner mismatch", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			noMatch(),
			mtest.CreateCursorResponse(0, ns(mt, DonationRequestsCollection), mtest.FirstBatch,
				donationDoc(id, requester, models.DonationInProgress)),
		)
		store := NewDonationStore(mt.DB)

		tr := models.CompleteDonation
		tr.Owner = primitive.NewObjectID().Hex()
		_, err := store.Transition(context.Background(), id.Hex(), tr)
		assert.ErrorIs(mt, err, ErrForbidden)
	})

	mt.Run("done is terminal", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			noMatch(),
			mtest.CreateCursorResponse(0, ns(mt, DonationRequestsCollection), mtest.FirstBatch,
				donationDoc(id, requester, models.DonationDone)),
		)
		store := NewDonationStore(mt.DB)

		tr := models.CancelDonation
		tr.Owner = requester
		_, err := store.Transition(context.Background(), id.Hex(), tr)
		assert.ErrorIs(mt, err, ErrConflict)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		store := NewDonationStore(mt.DB)

		_, err := store.Transition(context.Background(), "123", models.AcceptDonation)
		assert.ErrorIs(mt, err, ErrInvalidID)
	})
}

func TestDonationStore_ListByRequester(t *testing.T) {
	mt := newMockT(t)

	mt.Run("decodes", func(mt *mtest.T) {
		requester := primitive.NewObjectID().Hex()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, DonationRequestsCollection), mtest.FirstBatch,
			donationDoc(primitive.NewObjectID(), requester, models.DonationPending),
			donationDoc(primitive.NewObjectID(), requester, models.DonationPending),
		))
		store := NewDonationStore(mt.DB)

		list, err := store.ListByRequester(context.Background(), requester, models.DonationPending)
		require.NoError(mt, err)
		assert.Len(mt, list, 2)
		assert.Nil(mt, list[0].DonorInfo)
	})
}
