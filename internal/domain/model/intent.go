package model

type IntentKind string

const (
	IntentDeviceOn  IntentKind = "device_on"
	IntentDeviceOff IntentKind = "device_off"
	IntentDeviceDim IntentKind = "device_dim"
	IntentScenePlay IntentKind = "scene_play"
	IntentSceneStop IntentKind = "scene_stop"
)

// Dim levels the KAKU protocol understands.
const (
	DimLevelMin = 0
	DimLevelMax = 15
)

// Intent is one decoded client request for a state change. Built per
// request, never persisted.
type Intent struct {
	Kind  IntentKind
	ID    int
	Level int // only meaningful for IntentDeviceDim
}

func DeviceOn(id int) Intent { return Intent{Kind: IntentDeviceOn, ID: id} }
func DeviceOff(id int) Intent { return Intent{Kind: IntentDeviceOff, ID: id} }
func ScenePlay(id int) Intent { return Intent{Kind: IntentScenePlay, ID: id} }
func SceneStop(id int) Intent { return Intent{Kind: IntentSceneStop, ID: id} }

func DeviceDim(id, level int) Intent {
	return Intent{Kind: IntentDeviceDim, ID: id, Level: level}
}
