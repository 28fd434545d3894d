package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"resource-request-api/config"
	"resource-request-api/models"
)

var (
	departmentCacheMu sync.RWMutex
	departmentCache   *departmentCacheEntry
	departmentTTL     = 5 * time.Minute
)

type departmentCacheEntry struct {
	departments []models.Department
	byID        map[int]models.Department
	fetchedAt   time.Time
}

func loadDepartments(force bool) (*departmentCacheEntry, error) {
	departmentCacheMu.RLock()
	cached := departmentCache
	departmentCacheMu.RUnlock()

	if cached != nil && !force && time.Since(cached.fetchedAt) < departmentTTL {
		return cached, nil
	}

	departmentCacheMu.Lock()
	defer departmentCacheMu.Unlock()

	if departmentCache != nil && !force && time.Since(departmentCache.fetchedAt) < departmentTTL {
		return departmentCache, nil
	}

	var rows []models.Department
	if err := config.DB.Where("delete_at IS NULL AND is_active = ?", true).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load departments: %w", err)
	}

	byID := make(map[int]models.Department, len(rows))
	for _, dept := range rows {
		byID[dept.DepartmentID] = dept
	}

	entry := &departmentCacheEntry{
		departments: rows,
		byID:        byID,
		fetchedAt:   time.Now(),
	}
	departmentCache = entry
	return entry, nil
}

// ClearDepartmentCache invalidates the in-memory department cache.
func ClearDepartmentCache() {
	departmentCacheMu.Lock()
	defer departmentCacheMu.Unlock()
	departmentCache = nil
}

// GetDepartments returns all active departments with caching support.
func GetDepartments() ([]models.Department, error) {
	entry, err := loadDepartments(false)
	if err != nil {
		return nil, err
	}
	return entry.departments, nil
}

// GetDepartmentByID resolves an active department by its identifier.
func GetDepartmentByID(id int) (*models.Department, error) {
	if id <= 0 {
		return nil, errors.New("department id is required")
	}

	entry, err := loadDepartments(false)
	if err != nil {
		return nil, err
	}

	if dept, ok := entry.byID[id]; ok {
		return &dept, nil
	}

	// Force refresh cache once before giving up
	entry, err = loadDepartments(true)
	if err != nil {
		return nil, err
	}

	if dept, ok := entry.byID[id]; ok {
		return &dept, nil
	}

	return nil, fmt.Errorf("department %d not found", id)
}
