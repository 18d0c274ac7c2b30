package utils

import (
	"log"
	"time"

	"edumart/services"

	"github.com/robfig/cron/v3"
)

// InitializeBillingScheduler sets up the daily billing maintenance jobs:
// subscription reaping, renewal reminders, and earnings maturation.
func InitializeBillingScheduler(subs *services.SubscriptionService, earnings *services.EarningsService) *cron.Cron {
	log.Println("[BILLING-SCHEDULER] Initializing billing scheduler...")

	c := cron.New()

	// Run daily at 9 AM
	c.AddFunc("0 9 * * *", func() {
		log.Println("[BILLING-SCHEDULER] Running daily billing maintenance...")
		now := time.Now()

		reaped, err := subs.ReapExpired(now)
		if err != nil {
			log.Printf("[BILLING-SCHEDULER] Error reaping subscriptions: %v", err)
		} else {
			log.Printf("[BILLING-SCHEDULER] Processed %d subscriptions past their period end", reaped)
		}

		sent, err := subs.SendRenewalReminders(now)
		if err != nil {
			log.Printf("[BILLING-SCHEDULER] Error sending renewal reminders: %v", err)
		} else {
			log.Printf("[BILLING-SCHEDULER] Sent %d renewal reminders", sent)
		}

		matured, err := earnings.MatureEarnings(now)
		if err != nil {
			log.Printf("[BILLING-SCHEDULER] Error maturing earnings: %v", err)
		} else {
			log.Printf("[BILLING-SCHEDULER] Matured %d earnings to available", matured)
		}
	})

	c.Start()
	log.Println("[BILLING-SCHEDULER] Billing scheduler started - runs daily at 9 AM")
	return c
}
