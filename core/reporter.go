package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/evilsocket/islazy/fs"
	"github.com/evilsocket/islazy/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/evilsocket/alertboard/models"
)

type repository struct {
	Local  string `yaml:"local"`
	Remote string `yaml:"remote"`
	HTTP   string `yaml:"http"`
}

// Reporter periodically commits a CSV of the per host rollup to a git
// repository, optionally pushing it to a remote.
type Reporter struct {
	sync.Mutex

	Enabled    bool       `yaml:"enabled"`
	PeriodSecs int        `yaml:"period"`
	Repository repository `yaml:"repository"`

	repo *git.Repository
	tree *git.Worktree
}

func (r *Reporter) Period() time.Duration {
	return time.Duration(r.PeriodSecs) * time.Second
}

func (r *Reporter) Init() (err error) {
	if fs.Exists(r.Repository.Local) {
		if r.repo, err = git.PlainOpen(r.Repository.Local); err != nil {
			return fmt.Errorf("error while opening git repo %s: %v", r.Repository.Local, err)
		}

		r.tree, err = r.repo.Worktree()
		if err != nil {
			return fmt.Errorf("error while getting working tree for git repo %s: %v", r.Repository.Local, err)
		}

		if r.Repository.Remote != "" {
			log.Info("updating %s from %s ...", r.Repository.Local, r.Repository.Remote)

			err = r.tree.Pull(&git.PullOptions{RemoteName: "origin"})
			if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
				return fmt.Errorf("error while updating git repo %s: %v", r.Repository.Local, err)
			}
		}
	} else if r.Repository.Remote != "" {
		log.Info("cloning %s to %s ...", r.Repository.Remote, r.Repository.Local)

		r.repo, err = git.PlainClone(r.Repository.Local, false, &git.CloneOptions{
			URL: r.Repository.Remote,
		})
		if err != nil {
			return fmt.Errorf("error while cloning git repo %s to %s: %v", r.Repository.Remote, r.Repository.Local, err)
		}

		r.tree, err = r.repo.Worktree()
		if err != nil {
			return fmt.Errorf("error while getting working tree for git repo %s: %v", r.Repository.Local, err)
		}
	} else {
		log.Info("initializing report repository %s ...", r.Repository.Local)

		if r.repo, err = git.PlainInit(r.Repository.Local, false); err != nil {
			return fmt.Errorf("error while creating git repo %s: %v", r.Repository.Local, err)
		}

		r.tree, err = r.repo.Worktree()
		if err != nil {
			return fmt.Errorf("error while getting working tree for git repo %s: %v", r.Repository.Local, err)
		}
	}

	return nil
}

// writeReport writes the host rollup followed by a key/value footer with
// the snapshot KPIs.
func writeReport(fileName string, snap *models.Snapshot) error {
	fp, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("error creating %s: %v", fileName, err)
	}
	defer fp.Close()

	records := [][]string{{
		"host",
		"country_code",
		"country_name",
		"total_alerts",
		"critical_alerts",
		"mean_score",
	}}

	for _, h := range snap.Hosts {
		records = append(records, []string{
			h.Host,
			h.CountryCode,
			h.CountryName,
			fmt.Sprintf("%d", h.Total),
			fmt.Sprintf("%d", h.Critical),
			fmt.Sprintf("%.1f", h.MeanScore),
		})
	}

	records = append(records,
		[]string{"kpi", "value"},
		[]string{"total_alerts", fmt.Sprintf("%d", snap.KPIs.Total)},
		[]string{"critical_alerts", fmt.Sprintf("%d", snap.KPIs.Critical)},
		[]string{"hosts", fmt.Sprintf("%d", snap.KPIs.Hosts)},
		[]string{"mean_score", fmt.Sprintf("%.2f", snap.KPIs.MeanScore)},
		[]string{"alerts_last_hour", fmt.Sprintf("%d", snap.KPIs.LastWindow)},
		[]string{"top_process", snap.KPIs.TopProcess},
	)

	writer := csv.NewWriter(fp)
	if err = writer.WriteAll(records); err != nil {
		return fmt.Errorf("error writing %s: %v", fileName, err)
	}

	return fp.Close()
}

// OnSnapshot writes and commits the report for snap and returns its public
// URL, or an empty string if the reporter is disabled or no public URL is
// configured.
func (r *Reporter) OnSnapshot(snap *models.Snapshot) (reportURL string, err error) {
	r.Lock()
	defer r.Unlock()

	if !r.Enabled {
		return "", nil
	}

	fileBaseName := fmt.Sprintf("report_%s.csv", snap.GeneratedAt.Format("2006-01-02T15:04:05-0700"))
	fileName := path.Join(r.Repository.Local, fileBaseName)

	log.Info("saving report to %s", fileName)

	if err = writeReport(fileName, snap); err != nil {
		return "", err
	}

	log.Info("updating repository")

	if _, err = r.tree.Add(fileBaseName); err != nil {
		return "", fmt.Errorf("error while updating git repo %s: %v", r.Repository.Local, err)
	}

	message := fmt.Sprintf("report %s: %d alerts, %d critical from %d hosts",
		snap.ID, snap.KPIs.Total, snap.KPIs.Critical, snap.KPIs.Hosts)

	_, err = r.tree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "alertboard",
			Email: "alertboard@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("error while committing to git repo %s: %v", r.Repository.Local, err)
	}

	if r.Repository.Remote != "" {
		err = r.repo.Push(&git.PushOptions{})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return "", fmt.Errorf("error while pushing git repo %s: %v", r.Repository.Local, err)
		}
	}

	if r.Repository.HTTP == "" {
		return "", nil
	}

	reportURL = r.Repository.HTTP
	if !strings.HasSuffix(reportURL, "/") {
		reportURL += "/"
	}
	reportURL = fmt.Sprintf("%s%s", reportURL, fileBaseName)

	log.Info("new report saved to %s", reportURL)

	return reportURL, nil
}
