package services

import (
	"time"

	"github.com/parley-im/parley/pkg/internal/database"
	"github.com/parley-im/parley/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func DoAutoDatabaseCleanup() {
	deadline := time.Now().Add(-60 * time.Minute)
	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	var count int64
	for _, model := range database.AutoMaintainRange {
		tx := database.C.Unscoped().Delete(model, "deleted_at <= ?", deadline)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running database cleanup...")
		}
		count += tx.RowsAffected
	}

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}

// DoCallRetention sweeps terminal calls past the retention window
// together with their candidates. The protocol itself never deletes a
// call; retention is the only garbage collection.
func DoCallRetention() {
	retention := time.Second * time.Duration(viper.GetInt64("calling.retention_duration"))
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	deadline := time.Now().Add(-retention)

	var stale []models.Call
	if err := database.C.
		Where("status IN ? AND updated_at <= ?",
			[]models.CallStatus{models.CallStatusEnded, models.CallStatusRejected}, deadline).
		Find(&stale).Error; err != nil {
		log.Error().Err(err).Msg("An error occurred when listing stale calls...")
		return
	}
	if len(stale) == 0 {
		return
	}

	ids := make([]uint, 0, len(stale))
	for _, call := range stale {
		ids = append(ids, call.ID)
	}

	if err := database.C.Where("call_id IN ?", ids).Delete(&models.Candidate{}).Error; err != nil {
		log.Error().Err(err).Msg("An error occurred when sweeping stale candidates...")
		return
	}
	if err := database.C.Where("id IN ?", ids).Delete(&models.Call{}).Error; err != nil {
		log.Error().Err(err).Msg("An error occurred when sweeping stale calls...")
		return
	}

	remain, _ := CountTerminalCalls(database.C)
	log.Info().Int("swept", len(ids)).Int64("remaining", remain).Msg("Call retention sweep accomplished.")
}
