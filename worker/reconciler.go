package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/configs"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/models"
	"github.com/The-Fom-Org/menu-hub-africa-eats-sub000/internal/payments"
)

// Reconciler sweeps orders stuck in payment_status='pending' on a gateway
// method past the deadline, re-verifies each against the provider once, and
// marks them paid or failed. Manual methods and cash are exempt; staff
// reconcile those by hand.
type Reconciler struct {
	db       *gorm.DB
	registry *payments.Registry
	cfg      config.ReconcilerConfig
}

func NewReconciler(db *gorm.DB, registry *payments.Registry, cfg config.ReconcilerConfig) *Reconciler {
	return &Reconciler{db: db, registry: registry, cfg: cfg}
}

// Start kicks off the background sweep loop. It stops when ctx is done.
func (r *Reconciler) Start(ctx context.Context) {
	log.Printf("Starting payment reconciler (Batch: %d, Concurrency: %d, Interval: %v, Deadline: %v)",
		r.cfg.BatchSize, r.cfg.Concurrency, r.cfg.Interval, r.cfg.PendingDeadline)

	ticker := time.NewTicker(r.cfg.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Println("Payment reconciler stopped")
				return
			case <-ticker.C:
				r.Sweep(ctx)
			}
		}
	}()
}

// Sweep runs one reconciliation pass.
func (r *Reconciler) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-r.cfg.PendingDeadline)

	var orders []models.Order
	err := r.db.
		Where("payment_status = ?", models.PaymentStatusPending).
		Where("payment_method IN ?", []string{string(payments.MethodPesapal), string(payments.MethodMpesaDaraja)}).
		Where("created_at < ?", cutoff).
		Limit(r.cfg.BatchSize).
		Find(&orders).Error
	if err != nil {
		log.Println("Reconciler query error:", err)
		return
	}

	if len(orders) == 0 {
		return
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, r.cfg.Concurrency)

	for _, order := range orders {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(order models.Order) {
			defer wg.Done()
			defer func() { <-semaphore }()

			r.reconcile(ctx, order)
		}(order)
	}

	wg.Wait()
}

func (r *Reconciler) reconcile(ctx context.Context, order models.Order) {
	method, err := payments.ParseMethod(order.PaymentMethod)
	if err != nil {
		log.Printf("Reconciler skipping order %s: %v", order.CustomerToken, err)
		return
	}

	adapter, err := r.registry.Adapter(method)
	if err != nil {
		log.Printf("Reconciler skipping order %s: %v", order.CustomerToken, err)
		return
	}

	status := models.PaymentStatusFailed
	detail := "pending past deadline"

	if order.PaymentRef != "" {
		verify, err := adapter.Verify(ctx, order.PaymentRef)
		if err != nil {
			// Leave the order for the next sweep rather than failing it on
			// a transient provider error.
			log.Printf("Reconciler verify failed for order %s: %v", order.CustomerToken, err)
			return
		}
		detail = verify.Detail
		if verify.Status == "paid" {
			status = models.PaymentStatusPaid
		}
	}

	if err := r.db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_status", status).Error; err != nil {
		log.Printf("Reconciler update failed for order %s: %v", order.CustomerToken, err)
		return
	}

	log.Printf("Reconciled order %s: payment %s (%s)", order.CustomerToken, status, detail)
}
