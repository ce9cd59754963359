package models

import "encoding/json"

// Records mirror the backend wire format; all primary keys are server-assigned.

type Role struct {
	ID       int    `json:"id"`
	RoleName string `json:"roleName"`
}

type User struct {
	ID               int    `json:"id"`
	RoleID           int    `json:"roleId"`
	Email            string `json:"email"`
	FirstName        string `json:"firstName"`
	Nickname         string `json:"nickname"`
	Phone            string `json:"phone"`
	RegistrationDate string `json:"registrationDate"`
	Deleted          bool   `json:"deleted"`
	Role             *Role  `json:"role,omitempty"`
}

type Product struct {
	ID            int     `json:"id"`
	NameProduct   string  `json:"nameProduct"`
	Article       string  `json:"article"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stockQuantity"`
	CategoryID    int     `json:"categoryId"`
	SupplierID    int     `json:"supplierId"`
	ImageURL      string  `json:"imageUrl"`
	SalesCount    int     `json:"salesCount"`
	Deleted       bool    `json:"deleted"`
}

type Category struct {
	ID           int    `json:"id"`
	NameCategory string `json:"nameCategory"`
	Description  string `json:"description"`
}

type Supplier struct {
	ID           int    `json:"id"`
	NameSupplier string `json:"nameSupplier"`
	ContactEmail string `json:"contactEmail"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
}

type OrderItem struct {
	ID        int     `json:"id"`
	OrderID   int     `json:"orderId"`
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type Order struct {
	ID              int         `json:"id"`
	OrderNumber     string      `json:"orderNumber"`
	UserID          int         `json:"userId"`
	OrderDate       string      `json:"orderDate"`
	TotalAmount     float64     `json:"totalAmount"`
	StatusOrderID   int         `json:"statusOrderId"`
	AddressID       int         `json:"addressId"`
	DeliveryTypesID int         `json:"deliveryTypesId"`
	PaymentTypesID  int         `json:"paymentTypesId"`
	Items           []OrderItem `json:"orderItems,omitempty"`
}

type StatusOrder struct {
	ID         int    `json:"id"`
	NameStatus string `json:"nameStatus"`
}

type DeliveryType struct {
	ID           int     `json:"id"`
	NameDelivery string  `json:"nameDelivery"`
	Price        float64 `json:"price"`
}

type PaymentType struct {
	ID          int    `json:"id"`
	NamePayment string `json:"namePayment"`
}

// CartRow is the server-persisted cart line, one row per (user, product).
type CartRow struct {
	UserID    int `json:"userId"`
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type Favorite struct {
	ID        int `json:"id"`
	UserID    int `json:"userId"`
	ProductID int `json:"productId"`
}

type Review struct {
	ID          int    `json:"id"`
	ProductID   int    `json:"productId"`
	UserID      int    `json:"userId"`
	Rating      int    `json:"rating"`
	CommentText string `json:"commentText"`
	ReviewDate  string `json:"reviewDate"`
}

type Address struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Apartment string `json:"apartment"`
	PostCode  string `json:"postCode"`
}

type ProductCharacteristic struct {
	ID        int    `json:"id"`
	ProductID int    `json:"productId"`
	NameChar  string `json:"nameCharacteristic"`
	Value     string `json:"value"`
}

type AuditLog struct {
	ID        int    `json:"id"`
	TableName string `json:"tableName"`
	Operation string `json:"operation"`
	RecordID  int    `json:"recordId"`
	OldData   string `json:"oldData"`
	NewData   string `json:"newData"`
	UserID    int    `json:"userId"`
	ChangedAt string `json:"changedAt"`
}

// ParsedOldData decodes the OldData blob; a parse failure falls back to the
// raw string so the admin viewer always has something to show.
func (a AuditLog) ParsedOldData() any {
	return parseLogBlob(a.OldData)
}

func (a AuditLog) ParsedNewData() any {
	return parseLogBlob(a.NewData)
}

func parseLogBlob(raw string) any {
	if raw == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}
