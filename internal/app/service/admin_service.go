package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mixtales/mixtales-backend/internal/app/model"
	"github.com/mixtales/mixtales-backend/internal/app/repository"
	"github.com/mixtales/mixtales-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var (
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrInvalidStatusChange = errors.New("status change not allowed")
	ErrInvalidRole         = errors.New("invalid role")
)

type AdminService interface {
	ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error)
	GetOrder(orderID uint) (*model.Order, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error)
	ListUsers(page, limit int) ([]model.Profile, int64, error)
	UpdateUserRole(userID string, role model.UserRole) (*model.Profile, error)
	GetStats() (map[string]interface{}, error)
	ExportOrders(filter repository.OrderFilter) ([]byte, error)
}

type adminService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	profileRepo repository.ProfileRepository
}

func NewAdminService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	profileRepo repository.ProfileRepository,
) AdminService {
	return &adminService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		profileRepo: profileRepo,
	}
}

func (s *adminService) ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error) {
	logger.Debug("Listing orders for back office", map[string]interface{}{
		"status": filter.Status,
		"page":   filter.Page,
	})

	if filter.Status != "" && !model.ValidOrderStatus(filter.Status) {
		return nil, 0, ErrInvalidOrderStatus
	}

	orders, total, err := s.orderRepo.FindAll(filter)
	if err != nil {
		logger.Error("Failed to list orders", err, nil)
		return nil, 0, err
	}

	return orders, total, nil
}

func (s *adminService) GetOrder(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus moves an order along the fulfillment state machine.
// Illegal jumps (e.g. delivered back to pending) are rejected.
func (s *adminService) UpdateOrderStatus(orderID uint, status model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		logger.Warn("Order status change rejected", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       status,
		})
		return nil, ErrInvalidStatusChange
	}

	if err := s.orderRepo.UpdateStatus(orderID, status); err != nil {
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": orderID,
			"status":   status,
		})
		return nil, err
	}

	order.Status = status

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return order, nil
}

func (s *adminService) ListUsers(page, limit int) ([]model.Profile, int64, error) {
	logger.Debug("Listing users for back office", map[string]interface{}{
		"page": page,
	})

	profiles, total, err := s.profileRepo.FindAll(page, limit)
	if err != nil {
		logger.Error("Failed to list users", err, nil)
		return nil, 0, err
	}

	return profiles, total, nil
}

// UpdateUserRole flips a user between the customer and admin roles.
func (s *adminService) UpdateUserRole(userID string, role model.UserRole) (*model.Profile, error) {
	logger.Info("Updating user role", map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})

	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, ErrInvalidRole
	}

	profile, err := s.profileRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		logger.Error("Failed to fetch profile for role update", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := s.profileRepo.UpdateRole(userID, role); err != nil {
		logger.Error("Failed to update user role", err, map[string]interface{}{
			"user_id": userID,
			"role":    role,
		})
		return nil, err
	}

	profile.Role = role

	logger.Info("User role updated", map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})
	return profile, nil
}

func (s *adminService) GetStats() (map[string]interface{}, error) {
	logger.Debug("Collecting back office statistics", nil)

	stats, err := s.orderRepo.GetStats()
	if err != nil {
		return nil, err
	}

	totalProducts, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}
	totalCustomers, err := s.profileRepo.Count()
	if err != nil {
		return nil, err
	}

	stats["total_products"] = totalProducts
	stats["total_customers"] = totalCustomers

	return stats, nil
}

// ExportOrders renders the filtered order list as an XLSX workbook.
func (s *adminService) ExportOrders(filter repository.OrderFilter) ([]byte, error) {
	logger.Info("Exporting orders to XLSX", map[string]interface{}{
		"status": filter.Status,
	})

	if filter.Status != "" && !model.ValidOrderStatus(filter.Status) {
		return nil, ErrInvalidOrderStatus
	}

	// Export ignores pagination and dumps the whole filtered set
	filter.Page = 0
	filter.Limit = 0

	orders, _, err := s.orderRepo.FindAll(filter)
	if err != nil {
		logger.Error("Failed to fetch orders for export", err, nil)
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []string{
		"Order ID", "Created At", "Customer", "Email", "Status",
		"Payment Status", "Total Amount", "Items", "City", "Country",
	}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, order := range orders {
		itemNames := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			itemNames = append(itemNames, fmt.Sprintf("%s x%d", item.ProductName, item.Quantity))
		}

		values := []interface{}{
			order.ID,
			order.CreatedAt.Format("2006-01-02 15:04:05"),
			order.User.FullName,
			order.User.Email,
			string(order.Status),
			string(order.PaymentStatus),
			order.TotalAmount,
			strings.Join(itemNames, ", "),
			order.City,
			order.Country,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render XLSX export", err, nil)
		return nil, err
	}

	logger.Info("Orders exported", map[string]interface{}{
		"order_count": len(orders),
		"bytes":       buf.Len(),
	})
	return buf.Bytes(), nil
}
