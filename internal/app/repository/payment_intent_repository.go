package repository

import (
	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

type PaymentIntentRepository interface {
	Create(intent *model.PaymentIntent) error
	FindByTxnRef(txnRef string) (*model.PaymentIntent, error)
	Update(intent *model.PaymentIntent) error
}

type paymentIntentRepository struct {
	db *gorm.DB
}

func NewPaymentIntentRepository(db *gorm.DB) PaymentIntentRepository {
	return &paymentIntentRepository{db: db}
}

func (r *paymentIntentRepository) Create(intent *model.PaymentIntent) error {
	logger.Debug("Creating payment intent in database", map[string]interface{}{
		"txn_ref": intent.TxnRef,
		"user_id": intent.UserID,
		"amount":  intent.Amount,
	})

	if err := r.db.Create(intent).Error; err != nil {
		logger.Error("Failed to create payment intent in database", err, map[string]interface{}{
			"txn_ref": intent.TxnRef,
			"user_id": intent.UserID,
		})
		return err
	}

	return nil
}

func (r *paymentIntentRepository) FindByTxnRef(txnRef string) (*model.PaymentIntent, error) {
	logger.Debug("Finding payment intent by transaction reference in database", map[string]interface{}{
		"txn_ref": txnRef,
	})

	var intent model.PaymentIntent
	if err := r.db.Where("txn_ref = ?", txnRef).First(&intent).Error; err != nil {
		logger.Error("Failed to find payment intent by transaction reference in database", err, map[string]interface{}{
			"txn_ref": txnRef,
		})
		return nil, err
	}

	return &intent, nil
}

func (r *paymentIntentRepository) Update(intent *model.PaymentIntent) error {
	logger.Debug("Updating payment intent in database", map[string]interface{}{
		"txn_ref": intent.TxnRef,
		"status":  intent.Status,
	})

	if err := r.db.Save(intent).Error; err != nil {
		logger.Error("Failed to update payment intent in database", err, map[string]interface{}{
			"txn_ref": intent.TxnRef,
		})
		return err
	}

	return nil
}
