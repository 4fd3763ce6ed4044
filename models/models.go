package models

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

type MenuItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	Price       float64   `json:"price" db:"price"`
	CategoryID  uuid.UUID `json:"category" db:"category_id"`
	Category    string    `json:"categoryName,omitempty" db:"category_name"`
	Offers      string    `json:"offers,omitempty" db:"offers"`
}

type GalleryImage struct {
	ID       uuid.UUID `json:"id" db:"id"`
	ImageURL string    `json:"imageUrl" db:"image_url"`
}

type Offer struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	ImageURL    string    `json:"imageUrl" db:"image_url"`
	ButtonText  string    `json:"buttonText" db:"button_text"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type Reservation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Date      time.Time `json:"date" db:"date"`
	Time      string    `json:"time" db:"time"`
	People    int       `json:"people" db:"people"`
	Message   string    `json:"message,omitempty" db:"message"`
	Status    string    `json:"status" db:"status"`
	Branch    string    `json:"branch" db:"branch"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type Query struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Message   string    `json:"message" db:"message"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type User struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Username       string     `json:"username" db:"username"`
	Email          string     `json:"email" db:"email"`
	Password       string     `json:"-" db:"password"`
	IsAdmin        bool       `json:"isAdmin" db:"is_admin"`
	IsStaff        bool       `json:"isStaff" db:"is_staff"`
	ProfilePicture string     `json:"profilePicture,omitempty" db:"profile_picture"`
	LastLogin      *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	UserID          uuid.UUID   `json:"user" db:"user_id"`
	OrderID         string      `json:"orderId" db:"order_id"`
	Name            string      `json:"name" db:"name"`
	Email           string      `json:"email" db:"email"`
	ShippingAddress string      `json:"shippingAddress" db:"shipping_address"`
	City            string      `json:"city" db:"city"`
	Phone           string      `json:"phone" db:"phone"`
	Status          string      `json:"status" db:"status"`
	TotalPrice      float64     `json:"totalPrice" db:"total_price"`
	PaymentStatus   string      `json:"paymentStatus" db:"payment_status"`
	DateOrdered     time.Time   `json:"dateOrdered" db:"date_ordered"`
	Branch          string      `json:"branch" db:"branch"`
	SpecialNotes    string      `json:"specialNotes,omitempty" db:"special_notes"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
	MenuItems       []OrderItem `json:"menuItems" db:"-"`
}

// OrderItem is a single order line joined with the referenced menu row.
type OrderItem struct {
	OrderID    uuid.UUID `json:"-" db:"order_id"`
	MenuItemID uuid.UUID `json:"menuItemId" db:"menu_item_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	Title      string    `json:"title,omitempty" db:"title"`
	Price      float64   `json:"price,omitempty" db:"price"`
	ImageURL   string    `json:"imageUrl,omitempty" db:"image_url"`
}
