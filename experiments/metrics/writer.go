package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"trisearch/config"

	"github.com/pkg/errors"
)

type AgentRecord struct {
	ID int
	config.AgentConfig
}

type GameRecord struct {
	ID      int
	Matchup int
	Agents  []int // AgentRecord.ID per seat, in turn order
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped directory for one experiment under outputDir/name
func NewWriter(outputDir, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(outputDir, name, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create directory")
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(records []AgentRecord) error {
	header := []string{"id", "kind", "name", "depth", "duration", "episodes", "cutoff", "exploration", "seed"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			r.Kind,
			r.Name,
			strconv.Itoa(r.Depth),
			r.Duration.String(),
			strconv.Itoa(r.Episodes),
			strconv.Itoa(r.Cutoff),
			strconv.FormatFloat(r.Exploration, 'g', -1, 64),
			strconv.FormatUint(r.Seed, 10),
		})
	}
	return w.write("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "matchup", "agents", "starting_player", "winner", "loser", "total_moves", "fallbacks", "start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.Matchup),
			joinInts(r.Agents),
			strconv.Itoa(r.StartingPlayer),
			r.Winner,
			r.Loser,
			strconv.Itoa(r.TotalMoves),
			strconv.Itoa(r.Fallbacks),
			r.StartTime.Format(time.RFC3339),
			r.EndTime.Format(time.RFC3339),
			r.Duration.String(),
		})
	}
	return w.write("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "agent", "strategy", "duration", "iterations", "nodes", "full_playouts", "pruned", "skipped"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Game),
			strconv.Itoa(r.Step),
			strconv.Itoa(r.Player),
			r.Agent,
			r.Strategy,
			r.Duration.String(),
			strconv.Itoa(r.Iterations),
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.FullPlayouts),
			strconv.Itoa(r.Pruned),
			strconv.Itoa(r.Skipped),
		})
	}
	return w.write("move_records.csv", header, rows)
}

func (w *Writer) write(file string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", file)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return errors.Wrapf(err, "failed to write %s header", file)
	}
	if err := writer.WriteAll(rows); err != nil {
		return errors.Wrapf(err, "failed to write %s rows", file)
	}
	return nil
}

func joinInts(ids []int) string {
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += "|"
		}
		s += strconv.Itoa(id)
	}
	return s
}
