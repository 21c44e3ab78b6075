package discord

import (
	"bytes"
	"errors"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"dinnerwatch/internal/watcher"
)

var (
	chartBackground = drawing.ColorFromHex("2B2D31")
	chartBar        = drawing.ColorFromHex("F2A900")
	chartText       = drawing.ColorFromHex("DBDEE1")
)

// RenderKillsChart draws the leaderboard's kills as a PNG bar chart, one bar
// per row in board order.
func RenderKillsChart(board []watcher.LeaderboardRow) ([]byte, error) {
	if len(board) == 0 {
		return nil, errors.New("no leaderboard rows to chart")
	}

	maxKills := 1.0
	bars := make([]chart.Value, 0, len(board))
	for _, row := range board {
		if float64(row.Kills) > maxKills {
			maxKills = float64(row.Kills)
		}
		bars = append(bars, chart.Value{
			Label: row.Name,
			Value: float64(row.Kills),
			Style: chart.Style{
				FillColor:   chartBar,
				StrokeColor: chartBar,
			},
		})
	}

	width := 160*len(board) + 120
	if width < 480 {
		width = 480
	}

	graph := chart.BarChart{
		Title:    "Kills",
		Width:    width,
		Height:   360,
		BarWidth: 60,
		Background: chart.Style{
			FillColor: chartBackground,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		TitleStyle: chart.Style{
			FontColor: chartText,
		},
		XAxis: chart.Style{
			FontColor: chartText,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: chartText,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: maxKills},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
