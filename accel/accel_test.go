package accel

import (
	"testing"
	"time"
)

func TestDefaultRegistryHasCPUDevice(t *testing.T) {
	reg := Default()
	devices := reg.Devices()
	if len(devices) == 0 {
		t.Fatalf("expected at least one device in the default registry")
	}
	if devices[0].Name != "cpu" {
		t.Errorf("devices[0].Name = %q, want %q", devices[0].Name, "cpu")
	}
}

func TestOutOfRangeDeviceIDFallsBackToCPU(t *testing.T) {
	reg := Default()
	cpu := reg.Device(0)
	fallback := reg.Device(99)
	if fallback.ID != cpu.ID {
		t.Errorf("Device(99) = %v, want fallback to cpu device %v", fallback.ID, cpu.ID)
	}
	negFallback := reg.Device(-1)
	if negFallback.ID != cpu.ID {
		t.Errorf("Device(-1) = %v, want fallback to cpu device %v", negFallback.ID, cpu.ID)
	}
}

func TestContextExclusivity(t *testing.T) {
	d := Default().Device(0)
	ctx1, err := d.Context()
	if err != nil {
		t.Fatalf("Context: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		ctx2, err := d.Context()
		if err != nil {
			t.Errorf("second Context: %v", err)
			return
		}
		close(acquired)
		ctx2.Release()
	}()

	select {
	case <-acquired:
		t.Fatalf("second Context should not acquire the device while the first is held")
	case <-time.After(20 * time.Millisecond):
	}

	ctx1.Release()

	select {
	case <-acquired:
	case <-time.After(1 * time.Second):
		t.Fatalf("second Context should acquire the device once the first releases it")
	}
}

func TestEnqueuePendingRelease(t *testing.T) {
	d := Default().Device(0)
	ctx, err := d.Context()
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	ctx.Enqueue("kernel-a")
	ctx.Enqueue("kernel-b")
	pending := ctx.Pending()
	if len(pending) != 2 || pending[0] != "kernel-a" || pending[1] != "kernel-b" {
		t.Errorf("Pending() = %v, want [kernel-a kernel-b]", pending)
	}
	ctx.Release()
	if len(ctx.Pending()) != 0 {
		t.Errorf("Pending() after Release = %v, want empty", ctx.Pending())
	}
}
