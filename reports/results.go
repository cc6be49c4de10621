package reports

import (
	"fmt"
	"io"

	"github.com/foomo/loadprobe/vo"
	"gopkg.in/yaml.v3"
)

type yamlResult struct {
	Index   int    `yaml:"index"`
	Status  string `yaml:"status"`
	Server  string `yaml:"server"`
	Elapsed string `yaml:"elapsed"`
	Failure string `yaml:"failure,omitempty"`
	Error   string `yaml:"error,omitempty"`
}

type yamlRun struct {
	ID      string      `yaml:"id"`
	Target  string      `yaml:"target"`
	Wall    string      `yaml:"wall"`
	Summary *vo.Summary `yaml:"summary"`
}

func toYAMLResult(r vo.ProbeResult) yamlResult {
	return yamlResult{
		Index:   r.Index,
		Status:  r.Status.String(),
		Server:  r.Server,
		Elapsed: formatElapsed(r.Elapsed),
		Failure: string(r.Failure),
		Error:   r.Error,
	}
}

func reportResults(run *vo.Run, w io.Writer) {
	printh, println, _ := printers(w)
	printh("results", len(run.Results))
	for _, r := range run.Results {
		yamlBytes, errYaml := yaml.Marshal(toYAMLResult(r))
		if errYaml != nil {
			println("could not print", r.Index, errYaml)
		} else {
			println(string(yamlBytes))
		}
	}
}

// YAML writes the run summary as a yaml document
func YAML(w io.Writer, run *vo.Run) error {
	yamlBytes, errYaml := yaml.Marshal(yamlRun{
		ID:      run.ID.String(),
		Target:  run.Target,
		Wall:    run.Wall.String(),
		Summary: run.Summary,
	})
	if errYaml != nil {
		return fmt.Errorf("could not marshal run summary: %w", errYaml)
	}
	_, errWrite := w.Write(yamlBytes)
	return errWrite
}
