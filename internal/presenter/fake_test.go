package presenter

import (
	"context"
	"fmt"
	"sync"

	"beam_go/internal/hub"
	"beam_go/internal/models"
)

// fakeClient é o dublê do cliente do hub usado nos testes dos presenters.
// As notificações são emitidas diretamente na goroutine do teste.
type fakeClient struct {
	mu        sync.Mutex
	connected bool
	serverURL string

	connHandler   func()
	discHandler   func()
	rawHandler    func(models.RawDataPoint)
	calcHandler   func(models.CalculationResult)
	visHandler    func(models.VisualizationData)
	deviceHandler func(models.DeviceStatus)
	acqHandler    func(models.AcquisitionStatus)
	errHandler    func(models.ErrorNotification)
	progHandler   func(models.ProgressUpdate)
	logHandler    func(models.LogMessage)

	commands     []string
	commandErr   error
	connectErr   error
	subscribeErr error

	recalcParams []models.RecalculateParams
	recalcErr    error

	latestResult models.CalculationResult
	latestErr    error
	savedRecords []models.MeasurementRecord
	saveID       string
	saveErr      error

	screenshotName string
	reportName     string
	generateErr    error
	files          map[string][]byte

	settingsPushed []models.Settings
	updateErr      error
	dbTestResult   bool
	dbTestErr      error

	autoTest    models.AutoTestStatus
	autoTestErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{files: make(map[string][]byte)}
}

func (f *fakeClient) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeClient) ServerURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.serverURL
}

func (f *fakeClient) Connect(_ context.Context, serverURL string) error {
	f.mu.Lock()
	if f.connectErr != nil {
		err := f.connectErr
		f.mu.Unlock()
		return err
	}
	f.connected = true
	f.serverURL = serverURL
	handler := f.connHandler
	f.mu.Unlock()

	if handler != nil {
		handler()
	}
	return nil
}

func (f *fakeClient) Disconnect() {
	f.mu.Lock()
	f.connected = false
	handler := f.discHandler
	f.mu.Unlock()

	if handler != nil {
		handler()
	}
}

func (f *fakeClient) subscription(clear func()) *hub.Subscription {
	return hub.NewSubscription(func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		clear()
	})
}

func (f *fakeClient) OnConnected(h func()) *hub.Subscription {
	f.mu.Lock()
	f.connHandler = h
	f.mu.Unlock()
	return f.subscription(func() { f.connHandler = nil })
}

func (f *fakeClient) OnDisconnected(h func()) *hub.Subscription {
	f.mu.Lock()
	f.discHandler = h
	f.mu.Unlock()
	return f.subscription(func() { f.discHandler = nil })
}

func (f *fakeClient) OnRawDataReceived(h func(models.RawDataPoint)) *hub.Subscription {
	f.mu.Lock()
	f.rawHandler = h
	f.mu.Unlock()
	return f.subscription(func() { f.rawHandler = nil })
}

func (f *fakeClient) OnCalculationCompleted(h func(models.CalculationResult)) *hub.Subscription {
	f.mu.Lock()
	f.calcHandler = h
	f.mu.Unlock()
	return f.subscription(func() { f.calcHandler = nil })
}

func (f *fakeClient) OnVisualizationDataUpdated(h func(models.VisualizationData)) *hub.Subscription {
	f.mu.Lock()
	f.visHandler = h
	f.mu.Unlock()
	return f.subscription(func() { f.visHandler = nil })
}

func (f *fakeClient) OnDeviceStatusChanged(h func(models.DeviceStatus)) *hub.Subscription {
	f.mu.Lock()
	f.deviceHandler = h
	f.mu.Unlock()
	return f.subscription(func() { f.deviceHandler = nil })
}

func (f *fakeClient) OnAcquisitionStatusChanged(h func(models.AcquisitionStatus)) *hub.Subscription {
	f.mu.Lock()
	f.acqHandler = h
	f.mu.Unlock()
	return f.subscription(func() { f.acqHandler = nil })
}

func (f *fakeClient) OnErrorOccurred(h func(models.ErrorNotification)) *hub.Subscription {
	f.mu.Lock()
	f.errHandler = h
	f.mu.Unlock()
	return f.subscription(func() { f.errHandler = nil })
}

func (f *fakeClient) OnProgressUpdated(h func(models.ProgressUpdate)) *hub.Subscription {
	f.mu.Lock()
	f.progHandler = h
	f.mu.Unlock()
	return f.subscription(func() { f.progHandler = nil })
}

func (f *fakeClient) OnLogMessage(h func(models.LogMessage)) *hub.Subscription {
	f.mu.Lock()
	f.logHandler = h
	f.mu.Unlock()
	return f.subscription(func() { f.logHandler = nil })
}

func (f *fakeClient) emitRaw(p models.RawDataPoint) {
	f.mu.Lock()
	h := f.rawHandler
	f.mu.Unlock()
	if h != nil {
		h(p)
	}
}

func (f *fakeClient) emitCalculation(r models.CalculationResult) {
	f.mu.Lock()
	h := f.calcHandler
	f.mu.Unlock()
	if h != nil {
		h(r)
	}
}

func (f *fakeClient) emitVisualization(v models.VisualizationData) {
	f.mu.Lock()
	h := f.visHandler
	f.mu.Unlock()
	if h != nil {
		h(v)
	}
}

func (f *fakeClient) emitDeviceStatus(s models.DeviceStatus) {
	f.mu.Lock()
	h := f.deviceHandler
	f.mu.Unlock()
	if h != nil {
		h(s)
	}
}

func (f *fakeClient) emitAcquisitionStatus(s models.AcquisitionStatus) {
	f.mu.Lock()
	h := f.acqHandler
	f.mu.Unlock()
	if h != nil {
		h(s)
	}
}

func (f *fakeClient) emitProgress(p models.ProgressUpdate) {
	f.mu.Lock()
	h := f.progHandler
	f.mu.Unlock()
	if h != nil {
		h(p)
	}
}

func (f *fakeClient) emitLog(m models.LogMessage) {
	f.mu.Lock()
	h := f.logHandler
	f.mu.Unlock()
	if h != nil {
		h(m)
	}
}

func (f *fakeClient) emitError(e models.ErrorNotification) {
	f.mu.Lock()
	h := f.errHandler
	f.mu.Unlock()
	if h != nil {
		h(e)
	}
}

func (f *fakeClient) command(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, name)
	return f.commandErr
}

func (f *fakeClient) commandLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

func (f *fakeClient) StartAcquisition() error { return f.command("StartAcquisition") }
func (f *fakeClient) StopAcquisition() error  { return f.command("StopAcquisition") }
func (f *fakeClient) EmergencyStop() error    { return f.command("EmergencyStop") }
func (f *fakeClient) ResetDevice() error      { return f.command("ResetDevice") }
func (f *fakeClient) StartAutoTest() error    { return f.command("StartAutoTest") }

func (f *fakeClient) SubscribeToDataStream() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, "SubscribeToDataStream")
	return f.subscribeErr
}

func (f *fakeClient) UnsubscribeFromDataStream() error {
	return f.command("UnsubscribeFromDataStream")
}

func (f *fakeClient) GetAcquisitionStatus() (models.AcquisitionStatus, error) {
	return models.AcquisitionStatus{}, nil
}

func (f *fakeClient) GetDeviceStatus() (models.DeviceStatus, error) {
	return models.DeviceStatus{}, nil
}

func (f *fakeClient) RecalculateAnalysis(params models.RecalculateParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recalcParams = append(f.recalcParams, params)
	return f.recalcErr
}

func (f *fakeClient) recalculations() []models.RecalculateParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.RecalculateParams(nil), f.recalcParams...)
}

func (f *fakeClient) GetLatestAnalysisResult() (models.CalculationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latestResult, f.latestErr
}

func (f *fakeClient) SaveMeasurement(record models.MeasurementRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.savedRecords = append(f.savedRecords, record)
	return f.saveID, nil
}

func (f *fakeClient) QueryMeasurements(models.MeasurementQuery) ([]models.MeasurementRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.MeasurementRecord(nil), f.savedRecords...), nil
}

func (f *fakeClient) DeleteMeasurement(string) error { return f.command("DeleteMeasurement") }

func (f *fakeClient) GenerateScreenshot() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screenshotName, f.generateErr
}

func (f *fakeClient) GenerateReport(string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reportName, f.generateErr
}

func (f *fakeClient) DownloadFile(filename string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[filename]
	if !ok {
		return nil, fmt.Errorf("arquivo %s não encontrado", filename)
	}
	return data, nil
}

func (f *fakeClient) GetSettings() (models.Settings, error) {
	return models.Settings{}, nil
}

func (f *fakeClient) UpdateSettings(settings models.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.settingsPushed = append(f.settingsPushed, settings)
	return nil
}

func (f *fakeClient) pushedSettings() []models.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Settings(nil), f.settingsPushed...)
}

func (f *fakeClient) TestDatabaseConnection(models.RemoteDBSettings) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dbTestResult, f.dbTestErr
}

func (f *fakeClient) GetAutoTestStatus() (models.AutoTestStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.autoTest, f.autoTestErr
}
