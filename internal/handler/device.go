package handler

import (
	"net/http"

	"github.com/caddieai/caddie/internal/response"
	"github.com/caddieai/caddie/internal/service"
)

type DeviceHandler struct {
	deviceService *service.DeviceService
}

func NewDeviceHandler(deviceService *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{
		deviceService: deviceService,
	}
}

func (h *DeviceHandler) Pair(w http.ResponseWriter, r *http.Request) {
	var req service.PairDeviceInput
	if !decodeJSON(w, r, &req) {
		return
	}

	device, err := h.deviceService.Pair(userID(r), req)
	if err != nil {
		handleError(w, r, err, "failed to pair device", "user_id", userID(r))
		return
	}

	response.Created(w, device)
}

func (h *DeviceHandler) List(w http.ResponseWriter, r *http.Request) {
	devices, err := h.deviceService.Devices(userID(r))
	if err != nil {
		handleError(w, r, err, "failed to list devices", "user_id", userID(r))
		return
	}

	response.OK(w, devices)
}

func (h *DeviceHandler) Unpair(w http.ResponseWriter, r *http.Request) {
	err := h.deviceService.Unpair(userID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to unpair device", "user_id", userID(r), "device_id", r.PathValue("id"))
		return
	}

	response.Message(w, "Device unpaired")
}

func (h *DeviceHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var req service.SyncDeviceInput
	if !decodeJSON(w, r, &req) {
		return
	}

	device, err := h.deviceService.Sync(userID(r), r.PathValue("id"), req)
	if err != nil {
		handleError(w, r, err, "failed to sync device", "user_id", userID(r), "device_id", r.PathValue("id"))
		return
	}

	response.OK(w, device)
}
