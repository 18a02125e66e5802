package models

// Product is a catalog record as served by the remote store API. Products are
// replaced wholesale from responses and never patched field by field.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type User struct {
	ID       int     `json:"id"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Password string  `json:"password,omitempty"`
	Name     Name    `json:"name"`
	Address  Address `json:"address"`
	Phone    string  `json:"phone"`
}

type Name struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type Address struct {
	City        string      `json:"city"`
	Street      string      `json:"street"`
	Number      int         `json:"number"`
	Zipcode     string      `json:"zipcode"`
	Geolocation Geolocation `json:"geolocation"`
}

type Geolocation struct {
	Lat  string `json:"lat"`
	Long string `json:"long"`
}

// Cart is a historical order record owned by the remote API, not the live
// session cart.
type Cart struct {
	ID       int           `json:"id"`
	UserID   int           `json:"userId"`
	Date     string        `json:"date"`
	Products []CartProduct `json:"products"`
}

type CartProduct struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
