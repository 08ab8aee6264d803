package model

// Device is a read-only projection of a hub entity. It is re-fetched from
// the hub on every listing request, never cached.
type Device struct {
	ID     int          `json:"id"`
	Name   string       `json:"name"`
	Status DeviceStatus `json:"status"`
}

type DeviceStatus struct {
	On       bool `json:"on"`
	DimLevel int  `json:"dim_level"`
}

type Room struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	DeviceIDs []int  `json:"device_ids"`
}

type Scene struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
