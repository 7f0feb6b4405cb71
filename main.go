package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/shearpredict/internal/app"
	"yashubustudio/shearpredict/predictor"
)

func main() {
	fyneApp := fyneapp.NewWithID(app.ID)
	win := fyneApp.NewWindow(app.Title)
	win.Resize(fyne.NewSize(1400, 800))

	cfg, err := predictor.LoadConfig(os.Getenv("SHEARPRED_CONFIG"))
	if err != nil {
		showFatalError(win, fmt.Errorf("failed to load the configuration: %w", err))
		return
	}

	app.Run(fyneApp, win, cfg)
}

func showFatalError(win fyne.Window, err error) {
	content := widget.NewLabel(err.Error())
	win.SetContent(content)
	dialog.ShowError(err, win)
	win.ShowAndRun()
}
