package booking

import (
	"strconv"
	"strings"

	"agendapro/models"

	"go.uber.org/zap"
)

const defaultServiceDuration = 30

// CreateService adds a service to the catalog. Name is required; price defaults
// to 0 and duration to 30 minutes.
func (e *Engine) CreateService(in models.ServiceInput) (models.Service, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return models.Service{}, validationError("name is required")
	}
	if err := validateServiceInput(in); err != nil {
		return models.Service{}, err
	}

	svc := models.Service{
		Name:        strings.TrimSpace(*in.Name),
		DurationMin: defaultServiceDuration,
	}
	applyServiceInput(&svc, in)

	e.mu.Lock()
	defer e.mu.Unlock()

	svc.ID = e.nextServiceID()
	e.services = append(e.services, svc)
	e.persist.SaveServices(e.servicesCopy())

	e.logger.Info("Service created", zap.String("serviceID", svc.ID), zap.String("name", svc.Name))
	return svc, nil
}

// UpdateService applies the supplied fields of in to service id.
func (e *Engine) UpdateService(id string, in models.ServiceInput) (models.Service, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return models.Service{}, validationError("name cannot be empty")
	}
	if err := validateServiceInput(in); err != nil {
		return models.Service{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.services {
		if e.services[i].ID != id {
			continue
		}
		applyServiceInput(&e.services[i], in)
		updated := e.services[i]
		e.persist.SaveServices(e.servicesCopy())
		return updated, nil
	}
	return models.Service{}, notFoundError("service %s not found", id)
}

// DeleteService removes service id from the catalog. Appointments that reference
// it keep their id and name snapshot.
func (e *Engine) DeleteService(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.services {
		if e.services[i].ID != id {
			continue
		}
		e.services = append(e.services[:i], e.services[i+1:]...)
		e.persist.SaveServices(e.servicesCopy())
		e.logger.Info("Service deleted", zap.String("serviceID", id))
		return nil
	}
	return notFoundError("service %s not found", id)
}

func validateServiceInput(in models.ServiceInput) error {
	if in.Price != nil && *in.Price < 0 {
		return validationError("price must not be negative")
	}
	if in.DurationMin != nil && (*in.DurationMin <= 0 || *in.DurationMin > MaxDurationMin) {
		return validationError("durationMin must be between 1 and %d", MaxDurationMin)
	}
	return nil
}

func applyServiceInput(svc *models.Service, in models.ServiceInput) {
	if in.Name != nil {
		svc.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		svc.Price = *in.Price
	}
	if in.DurationMin != nil {
		svc.DurationMin = *in.DurationMin
	}
	if in.Description != nil {
		svc.Description = *in.Description
	}
	if in.Category != nil {
		svc.Category = *in.Category
	}
}

// nextServiceID returns "svc-<unix millis>", bumped until unused. Callers hold the lock.
func (e *Engine) nextServiceID() string {
	n := e.now().UnixMilli()
	for {
		id := "svc-" + strconv.FormatInt(n, 10)
		if !e.hasService(id) {
			return id
		}
		n++
	}
}

func (e *Engine) hasService(id string) bool {
	for _, s := range e.services {
		if s.ID == id {
			return true
		}
	}
	return false
}
