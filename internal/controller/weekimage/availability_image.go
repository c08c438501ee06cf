package weekimage

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/Freeeeeet/slot_scheduler/internal/model"
	"github.com/Freeeeeet/slot_scheduler/internal/timeutil"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 120
	dayPaddingX      = 8
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 8
	defaultMaxHour   = 20
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	slotFreeColor   = color.RGBA{133, 193, 85, 220}
	slotTextColor   = color.RGBA{20, 24, 28, 230}
	slotShadowColor = color.RGBA{0, 0, 0, 20}
	legendTextColor = color.RGBA{70, 74, 78, 220}
)

// hourRange диапазон часов для отображения, end не включается
type hourRange struct {
	start int
	end   int
}

func (h hourRange) total() int {
	return h.end - h.start
}

// day одна колонка картинки
type day struct {
	date  time.Time
	slots []int // секунды от полуночи
}

// RenderAvailability рисует свободные слоты по дням в PNG
func RenderAvailability(days []model.DayAvailability, loc *time.Location) ([]byte, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("render availability: no days")
	}

	columns, err := parseDays(days, loc)
	if err != nil {
		return nil, err
	}
	hours := calculateHourRange(columns)

	dc := createCanvas()
	// basicfont покрывает только ASCII, поэтому подписи на английском
	dc.SetFontFace(basicfont.Face7x13)

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / len(columns)
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total())

	drawHeader(dc, columns)
	drawHourLabels(dc, hours, cellHeight)
	for i, column := range columns {
		x := float64(leftLabelsWidth + i*dayWidth)
		drawDay(dc, column, i, x, dayWidth, dayHeight, hours, cellHeight)
	}
	drawLegend(dc, leftLabelsWidth+len(columns)*dayWidth)

	return encodeImage(dc)
}

func parseDays(days []model.DayAvailability, loc *time.Location) ([]day, error) {
	columns := make([]day, 0, len(days))
	for _, d := range days {
		date, err := time.ParseInLocation("2006-01-02", d.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", d.Date, err)
		}

		column := day{date: date}
		for _, raw := range d.Slots {
			t, err := time.Parse("15:04", raw)
			if err != nil {
				return nil, fmt.Errorf("parse slot %q: %w", raw, err)
			}
			column.slots = append(column.slots, t.Hour()*3600+t.Minute()*60)
		}
		columns = append(columns, column)
	}
	return columns, nil
}

// calculateHourRange определяет диапазон часов по всем слотам
func calculateHourRange(columns []day) hourRange {
	minHour, maxHour := 24, 0
	for _, column := range columns {
		for _, start := range column.slots {
			startH := start / 3600
			endH := (start + timeutil.SlotSeconds + 3599) / 3600
			if startH < minHour {
				minHour = startH
			}
			if endH > maxHour {
				maxHour = endH
			}
		}
	}

	if minHour == 24 {
		return hourRange{start: defaultMinHour, end: defaultMaxHour}
	}

	start := minHour - hourPaddingTop
	end := maxHour + hourPaddingBot
	if start < 0 {
		start = 0
	}
	if end > 24 {
		end = 24
	}
	return hourRange{start: start, end: end}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с периодом
func drawHeader(dc *gg.Context, columns []day) {
	first := columns[0].date
	last := columns[len(columns)-1].date
	title := "Free slots " + first.Format("02.01.2006") + " - " + last.Format("02.01.2006")

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/4, 0, 0.5)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for i := 0; i <= hours.total(); i++ {
		y := float64(headerHeight) + float64(i)*cellHeight
		label := timeutil.FormatSeconds((hours.start + i) * 3600)
		if hours.start+i == 24 {
			label = "24:00"
		}
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDay рисует фон, заголовок и слоты одного дня
func drawDay(dc *gg.Context, column day, index int, x float64, dayWidth, dayHeight int, hours hourRange, cellHeight float64) {
	y := float64(headerHeight)

	if index%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()

	dc.SetColor(textColor)
	dc.DrawStringAnchored(column.date.Format("02.01"), x+float64(dayWidth)/2, y-30, 0.5, 0.5)
	dc.DrawStringAnchored(weekdayShort(column.date.Weekday()), x+float64(dayWidth)/2, y-12, 0.5, 0.5)

	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for i := 0; i <= hours.total(); i++ {
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}

	for _, start := range column.slots {
		drawSlot(dc, start, x, y, dayWidth, hours, cellHeight)
	}
}

// drawSlot рисует один 30-минутный слот
func drawSlot(dc *gg.Context, start int, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(start) / 3600
	slotY := y + (startHour-float64(hours.start))*cellHeight
	slotHeight := cellHeight / 2
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(slotFreeColor)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(slotTextColor)
	dc.DrawStringAnchored(timeutil.FormatSeconds(start), x+dayPaddingX+8, slotY+slotHeight/2, 0, 0.5)
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, x int) {
	legendX := float64(x + 10)
	legendY := float64(imageHeight) - 60.0

	dc.SetColor(slotFreeColor)
	dc.DrawRoundedRectangle(legendX, legendY, 20, 14, 3)
	dc.Fill()

	dc.SetColor(legendTextColor)
	dc.DrawStringAnchored("Free", legendX+28, legendY+7, 0, 0.5)
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// weekdayShort короткие дни недели
func weekdayShort(weekday time.Weekday) string {
	weekdays := map[time.Weekday]string{
		time.Monday:    "Mon",
		time.Tuesday:   "Tue",
		time.Wednesday: "Wed",
		time.Thursday:  "Thu",
		time.Friday:    "Fri",
		time.Saturday:  "Sat",
		time.Sunday:    "Sun",
	}
	return weekdays[weekday]
}
