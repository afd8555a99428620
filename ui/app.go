package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"tds-export/config"
	"tds-export/db"
	"tds-export/pipeline"
	"tds-export/utils"
)

// Run builds the export window and enters the event loop. It returns when
// the window closes.
func Run(cfg *config.Config, logger *utils.Logger) {
	a := app.New()
	w := a.NewWindow("TDS Excel Production Suite")
	w.Resize(fyne.NewSize(820, 620))

	// Connection fields, pre-filled from config and overwritten by the
	// directory search below.
	serverEntry := widget.NewEntry()
	serverEntry.SetText(cfg.DefaultServer)
	databaseEntry := widget.NewEntry()
	databaseEntry.SetText(cfg.DefaultDatabase)

	folderEntry := widget.NewEntry()
	folderEntry.SetText(cfg.OutputFolder)
	browseBtn := widget.NewButton("Browse", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			folderEntry.SetText(uri.Path())
		}, w)
	})

	// Directory search.
	searchEntry := widget.NewEntry()
	searchEntry.SetPlaceHolder("Database name")

	var results []db.DatabaseEntry
	resultList := widget.NewList(
		func() int { return len(results) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			e := results[id]
			obj.(*widget.Label).SetText(fmt.Sprintf("%s — %s (%s)", e.Description, e.DatabaseName, e.Server))
		},
	)
	resultList.OnSelected = func(id widget.ListItemID) {
		if id < 0 || id >= len(results) {
			return
		}
		serverEntry.SetText(results[id].Server)
		databaseEntry.SetText(results[id].DatabaseName)
	}

	statusLabel := widget.NewLabel("Ready")
	progress := widget.NewProgressBarInfinite()
	progress.Stop()

	logView := widget.NewMultiLineEntry()
	logView.Wrapping = fyne.TextWrapWord

	setStatus := func(msg string) {
		fyne.Do(func() { statusLabel.SetText(msg) })
	}
	appendLog := func(msg string) {
		fyne.Do(func() {
			logView.SetText(logView.Text + msg + "\n")
			logView.CursorRow = lastRow(logView.Text)
		})
	}

	searchBtn := widget.NewButton("Search", func() {
		term := searchEntry.Text
		setStatus("Searching directory…")
		go func() {
			entries, err := db.SearchDatabases(context.Background(), cfg.DirectoryServer, cfg.DirectoryDatabase, term, logger)
			fyne.Do(func() {
				if err != nil {
					statusLabel.SetText("Ready")
					dialog.ShowError(err, w)
					return
				}
				results = entries
				resultList.UnselectAll()
				resultList.Refresh()
				statusLabel.SetText(fmt.Sprintf("%d databases found", len(entries)))
			})
		}()
	})

	var runBtn *widget.Button
	runBtn = widget.NewButton("RUN PRODUCTION EXPORT", func() {
		server := serverEntry.Text
		database := databaseEntry.Text
		folder := folderEntry.Text
		if server == "" || database == "" {
			dialog.ShowError(errors.New("select or enter a server and database first"), w)
			return
		}

		runBtn.Disable()
		progress.Start()
		go func() {
			err := pipeline.Export(context.Background(), server, database, folder, logger, setStatus, appendLog)
			fyne.Do(func() {
				progress.Stop()
				runBtn.Enable()
				if err != nil {
					statusLabel.SetText("Error")
					logger.Error("[ui] export failed: %v", err)
					dialog.ShowError(err, w)
					return
				}
				statusLabel.SetText("Completed")
				dialog.ShowInformation("Success", "Production export completed.", w)
			})
		}()
	})
	runBtn.Importance = widget.HighImportance

	form := container.NewVBox(
		widget.NewLabel("Search Database"),
		container.NewBorder(nil, nil, nil, searchBtn, searchEntry),
		widget.NewSeparator(),
		widget.NewLabel("Selected Server"),
		serverEntry,
		widget.NewLabel("Selected Database"),
		databaseEntry,
		widget.NewLabel("Output Folder"),
		container.NewBorder(nil, nil, nil, browseBtn, folderEntry),
		container.NewHBox(statusLabel, layout.NewSpacer()),
		progress,
		runBtn,
	)

	split := container.NewVSplit(
		container.NewBorder(form, nil, nil, nil, resultList),
		logView,
	)
	split.SetOffset(0.7)

	w.SetContent(split)
	w.ShowAndRun()
}

// lastRow is the row index of the final line of text, used to keep the log
// entry scrolled to its newest line.
func lastRow(text string) int {
	return strings.Count(text, "\n")
}
