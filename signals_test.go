package stepper

import "testing"

func TestSignalNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{PressStarted.Name(), "stepper.press.started"},
		{PressRepeatStarted.Name(), "stepper.press.repeating"},
		{PressStopped.Name(), "stepper.press.stopped"},
		{SaveScheduled.Name(), "stepper.save.scheduled"},
		{ValueChanged.Name(), "stepper.value.changed"},
		{ValueSaved.Name(), "stepper.value.saved"},
		{SaveAbandoned.Name(), "stepper.save.abandoned"},
		{ValueUpdated.Name(), "stepper.value.updated"},
		{InputRejected.Name(), "stepper.input.rejected"},
		{ValueReset.Name(), "stepper.value.reset"},
		{ReloaderStarted.Name(), "stepper.reloader.started"},
		{ReloaderStopped.Name(), "stepper.reloader.stopped"},
		{ReloaderStateChanged.Name(), "stepper.reloader.state.changed"},
		{ReloaderChangeReceived.Name(), "stepper.reloader.change.received"},
		{ReloaderDecodeFailed.Name(), "stepper.reloader.decode.failed"},
		{ReloaderValidationFailed.Name(), "stepper.reloader.validation.failed"},
		{ReloaderApplyFailed.Name(), "stepper.reloader.apply.failed"},
		{ReloaderApplySucceeded.Name(), "stepper.reloader.apply.succeeded"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("expected name %q, got %q", tt.want, tt.got)
		}
	}
}
