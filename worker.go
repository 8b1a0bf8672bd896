package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"chalkcast/assemble"
	"chalkcast/compose"
	"chalkcast/config"
	"chalkcast/elevenlabs"
	"chalkcast/jobs"
	"chalkcast/mascot"
	"chalkcast/narration"
	"chalkcast/openai"
	"chalkcast/render"
	"chalkcast/summarize"
	"chalkcast/uploads"
	"chalkcast/videos"
)

// pipelineWorker drains queued jobs, one at a time, forever.
func pipelineWorker(asm *assemble.Assembler) {

	// jobs stuck in processing from a previous run
	db.Model(&jobs.Job{}).
		Where("status = ?", jobs.StatusProcessing).
		Update("status", jobs.StatusQueued)

	processQueued(asm)
	ticker := time.NewTicker(5 * time.Second)
	for range ticker.C {
		processQueued(asm)
	}
}

func processQueued(asm *assemble.Assembler) {
	for {
		var job jobs.Job
		err := db.Where("status = ?", jobs.StatusQueued).
			Order("created_at").
			First(&job).Error
		if err == gorm.ErrRecordNotFound {
			return // no more queued jobs
		}
		if err != nil {
			log.Errorln("couldn't poll for queued jobs:", err)
			return
		}
		runJob(asm, job)
	}
}

func advance(job jobs.Job, progress int) {
	if err := jobs.SetProgress(job.ID, progress); err != nil {
		log.Errorln(err)
	}
	jobs.Publish(job.UserID, jobs.Event{JobID: job.ID, Status: jobs.StatusProcessing, Progress: progress})
}

func failJob(job jobs.Job, err error) {
	log.Errorf("job %d failed: %v", job.ID, err)
	if err := jobs.Fail(job.ID, err.Error()); err != nil {
		log.Errorln(err)
	}
	jobs.Publish(job.UserID, jobs.Event{JobID: job.ID, Status: jobs.StatusFailed})
}

// runJob executes the whole summarize-to-video pipeline for one job:
// summarize, render, composite, narrate, assemble, record.
func runJob(asm *assemble.Assembler, job jobs.Job) {
	log.Infof("job %d: starting", job.ID)
	if err := jobs.SetStatus(job.ID, jobs.StatusProcessing); err != nil {
		log.Errorln(err)
		return
	}
	advance(job, 5)

	// missing credentials fail before any work begins
	openaiKey, err := config.GetOpenAIKey()
	if err != nil {
		failJob(job, err)
		return
	}
	elevenKey, err := config.GetElevenLabsKey()
	if err != nil {
		failJob(job, err)
		return
	}

	var upload uploads.UploadedFile
	if err := db.First(&upload, "id = ?", job.UploadID).Error; err != nil {
		failJob(job, fmt.Errorf("no such upload %d", job.UploadID))
		return
	}

	llm := openai.New(openaiKey)

	// summarize into exactly six slides
	sum, err := summarize.Run(llm, upload.Text)
	if err != nil {
		failJob(job, err)
		return
	}
	summarySlides := make([]uploads.SummarySlide, 0, len(sum.Slides))
	for _, s := range sum.Slides {
		summarySlides = append(summarySlides, uploads.SummarySlide{
			Title:    s.Title,
			Content:  s.Content,
			Duration: s.Duration,
		})
	}
	if err := db.Create(&uploads.Summary{
		UploadID: upload.ID,
		Overall:  sum.Summary,
		Slides:   summarySlides,
	}).Error; err != nil {
		log.Errorln("couldn't store summary:", err)
	}
	advance(job, 25)

	// render the blackboard slides
	opts := render.DefaultOptions()
	images := make([][]byte, len(sum.Slides))
	for i, s := range sum.Slides {
		img, err := render.Blackboard(render.Slide{
			Title:    s.Title,
			Content:  s.Content,
			Duration: s.Duration,
		}, i, len(sum.Slides), opts)
		if err != nil {
			failJob(job, err)
			return
		}
		images[i] = img
	}
	advance(job, 40)

	// overlay mascots; any per-slide failure keeps the plain slide
	if job.WithMascot {
		batch := mascot.Run(llm, nil, len(sum.Slides), sum.Summary)
		log.Infof("job %d: mascot images %d/%d", job.ID, batch.Succeeded, batch.Total)
		for _, r := range batch.Results {
			if r.Image == nil {
				continue
			}
			composited, err := compose.Overlay(images[r.SlideIndex], r.Image)
			if err != nil {
				log.Errorf("job %d: compositing slide %d failed, using plain slide: %v",
					job.ID, r.SlideIndex, err)
				continue
			}
			images[r.SlideIndex] = composited
		}
	}
	advance(job, 55)

	// narrate; failed slides keep their declared pacing
	narrationSlides := make([]narration.Slide, 0, len(sum.Slides))
	for _, s := range sum.Slides {
		narrationSlides = append(narrationSlides, narration.Slide{
			Title:    s.Title,
			Content:  s.Content,
			Duration: s.Duration,
		})
	}
	nbatch := narration.Run(elevenlabs.New(elevenKey), config.GetVoiceID(), narrationSlides, 1)
	log.Infof("job %d: narration %d/%d", job.ID, nbatch.Succeeded, nbatch.Total)
	advance(job, 70)

	slides := make([]assemble.Slide, 0, len(sum.Slides))
	for i, s := range sum.Slides {
		slides = append(slides, assemble.Slide{
			Title:    s.Title,
			Content:  s.Content,
			Duration: s.Duration,
			Image:    images[i],
			Audio:    nbatch.Results[i].Audio,
		})
	}

	out, err := asm.Assemble(slides)
	if err != nil {
		failJob(job, err)
		return
	}
	advance(job, 90)

	// metadata recording is best-effort: the video file already exists
	base := strings.TrimSuffix(out.Filename, ".mp4")
	infos := make([]videos.SlideInfo, 0, len(slides))
	for i, s := range slides {
		imageFilename := fmt.Sprintf("%s_slide_%d.png", base, i)
		if err := os.WriteFile(filepath.Join(config.GetDataDir(), imageFilename), s.Image, 0600); err != nil {
			log.Errorf("couldn't write slide image %s: %v", imageFilename, err)
			imageFilename = ""
		}
		infos = append(infos, videos.SlideInfo{
			Title:         s.Title,
			Content:       s.Content,
			ImageFilename: imageFilename,
			Duration:      out.SegmentDurations[i],
		})
	}

	video, err := videos.Record(db, job.UserID, "", out.Filename, out.Duration, out.Size, infos)
	if err != nil {
		log.Errorf("job %d: couldn't record video metadata: %v", job.ID, err)
	}

	if video != nil {
		if err := jobs.Complete(job.ID, video.ID); err != nil {
			log.Errorln(err)
		}
	} else {
		// the video was delivered even though the metadata store wasn't
		jobs.SetProgress(job.ID, 100)
		jobs.SetStatus(job.ID, jobs.StatusCompleted)
	}
	jobs.Publish(job.UserID, jobs.Event{JobID: job.ID, Status: jobs.StatusCompleted, Progress: 100})
	log.Infof("job %d: completed (%s, %.1fs, %d bytes)", job.ID, out.Filename, out.Duration, out.Size)
}
