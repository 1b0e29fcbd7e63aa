package dto

// RegisterPassengerRequest creates a passenger account.
type RegisterPassengerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegisterDriverRequest creates a driver account.
type RegisterDriverRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required"`
	Password     string `json:"password" binding:"required,min=8"`
	VehicleType  string `json:"vehicle_type" binding:"required,oneof=economy premium luxury"`
	VehiclePlate string `json:"vehicle_plate" binding:"required"`
}

// LoginRequest authenticates a passenger, driver or admin.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateRideRequest represents a passenger asking for a ride.
type CreateRideRequest struct {
	VehicleType      string  `json:"vehicle_type" binding:"required,oneof=economy premium luxury"`
	PickupAddress    string  `json:"pickup_address"`
	DropoffAddress   string  `json:"dropoff_address"`
	PickupLatitude   float64 `json:"pickup_latitude" binding:"required"`
	PickupLongitude  float64 `json:"pickup_longitude" binding:"required"`
	DropoffLatitude  float64 `json:"dropoff_latitude" binding:"required"`
	DropoffLongitude float64 `json:"dropoff_longitude" binding:"required"`
}

// CompleteRideRequest carries the measured trip for fare calculation.
type CompleteRideRequest struct {
	DistanceKM      float64 `json:"distance_km" binding:"required,gt=0"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,gt=0"`
}

// CancelRideRequest carries an optional reason.
type CancelRideRequest struct {
	Reason string `json:"reason"`
}

// AssignDriverRequest is the admin flow binding a specific driver.
type AssignDriverRequest struct {
	DriverID int64 `json:"driver_id" binding:"required"`
}

// UpdateLocationRequest represents a driver location update.
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// UpdateOnlineStatusRequest flips a driver's online flag.
type UpdateOnlineStatusRequest struct {
	Online *bool `json:"online" binding:"required"`
}
