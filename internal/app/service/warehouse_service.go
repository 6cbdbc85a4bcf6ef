package service

import (
	"errors"

	"github.com/ttmai/velora-backend/internal/app/model"
	"github.com/ttmai/velora-backend/internal/app/repository"
	"github.com/ttmai/velora-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrWarehouseCodeTaken = errors.New("warehouse code already in use")

type WarehouseService interface {
	CreateWarehouse(name, code, address, phone string, isDefault bool) (*model.Warehouse, error)
	GetWarehouses() ([]model.Warehouse, error)
	GetWarehouseByID(id uint) (*model.Warehouse, error)
	UpdateWarehouse(id uint, name, address, phone string) (*model.Warehouse, error)
	SetDefaultWarehouse(id uint) error
	DeleteWarehouse(id uint) error
}

type warehouseService struct {
	warehouseRepo repository.WarehouseRepository
}

func NewWarehouseService(warehouseRepo repository.WarehouseRepository) WarehouseService {
	return &warehouseService{warehouseRepo: warehouseRepo}
}

func (s *warehouseService) CreateWarehouse(name, code, address, phone string, isDefault bool) (*model.Warehouse, error) {
	logger.Info("Creating warehouse", map[string]interface{}{
		"name": name,
		"code": code,
	})

	if _, err := s.warehouseRepo.FindByCode(code); err == nil {
		logger.Warn("Warehouse creation failed: code already in use", map[string]interface{}{
			"code": code,
		})
		return nil, ErrWarehouseCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	warehouse := &model.Warehouse{
		Name:    name,
		Code:    code,
		Address: address,
		Phone:   phone,
	}
	if err := s.warehouseRepo.Create(warehouse); err != nil {
		return nil, err
	}

	if isDefault {
		if err := s.warehouseRepo.SetDefault(warehouse.ID); err != nil {
			return nil, err
		}
		warehouse.IsDefault = true
	}

	logger.Info("Warehouse created", map[string]interface{}{
		"warehouse_id": warehouse.ID,
		"code":         warehouse.Code,
	})
	return warehouse, nil
}

func (s *warehouseService) GetWarehouses() ([]model.Warehouse, error) {
	return s.warehouseRepo.FindAll()
}

func (s *warehouseService) GetWarehouseByID(id uint) (*model.Warehouse, error) {
	warehouse, err := s.warehouseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarehouseNotFound
		}
		return nil, err
	}
	return warehouse, nil
}

func (s *warehouseService) UpdateWarehouse(id uint, name, address, phone string) (*model.Warehouse, error) {
	warehouse, err := s.GetWarehouseByID(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		warehouse.Name = name
	}
	if address != "" {
		warehouse.Address = address
	}
	if phone != "" {
		warehouse.Phone = phone
	}

	if err := s.warehouseRepo.Update(warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

func (s *warehouseService) SetDefaultWarehouse(id uint) error {
	if _, err := s.GetWarehouseByID(id); err != nil {
		return err
	}
	return s.warehouseRepo.SetDefault(id)
}

func (s *warehouseService) DeleteWarehouse(id uint) error {
	if _, err := s.GetWarehouseByID(id); err != nil {
		return err
	}
	return s.warehouseRepo.Delete(id)
}
