package mapping

import (
	"github.com/kontoflow/kontoflow_backend/internal/core/domain"
	"github.com/kontoflow/kontoflow_backend/internal/models"
)

// ToModelSavingsPlan converts a domain SavingsPlan to a model SavingsPlan
func ToModelSavingsPlan(d domain.SavingsPlan) models.SavingsPlan {
	return models.SavingsPlan{
		PlanID:       d.PlanID,
		OwnerID:      d.OwnerID,
		Name:         d.Name,
		PlanType:     string(d.PlanType),
		Interval:     string(d.Interval),
		TargetAmount: d.TargetAmount,
		TargetDate:   d.TargetDate,
		Archived:     d.Archived,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSavingsPlan converts a model SavingsPlan to a domain SavingsPlan
func ToDomainSavingsPlan(m models.SavingsPlan) domain.SavingsPlan {
	return domain.SavingsPlan{
		PlanID:       m.PlanID,
		OwnerID:      m.OwnerID,
		Name:         m.Name,
		PlanType:     domain.SavingsPlanType(m.PlanType),
		Interval:     domain.PlanInterval(m.Interval),
		TargetAmount: m.TargetAmount,
		TargetDate:   m.TargetDate,
		Archived:     m.Archived,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
