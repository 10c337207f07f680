package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"whatsapp-chat-parser/internal/adapters/exporter"
	"whatsapp-chat-parser/internal/domain"
)

type TaskStatusResponse struct {
	TaskID       string `json:"task_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type TaskResultResponse struct {
	Chat          domain.Chat `json:"chat"`
	Page          int         `json:"page"`
	PageSize      int         `json:"page_size"`
	TotalMessages int         `json:"total_messages"`
}

func main() {
	var serverAddr string
	flag.StringVar(&serverAddr, "server", "http://localhost:8080", "Server address")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("Exactly one transcript path is required. Usage: client [flags] <transcript>")
	}
	path := flag.Arg(0)

	// Создание многочастной формы для загрузки файла
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Не удалось открыть файл %s: %v", path, err)
	}

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		_ = file.Close()
		log.Fatalf("Не удалось создать файл формы для %s: %v", path, err)
	}

	if _, err = io.Copy(part, file); err != nil {
		_ = file.Close()
		log.Fatalf("Не удалось записать данные файла %s: %v", path, err)
	}
	if err := file.Close(); err != nil {
		log.Printf("Warning: failed to close file %s: %v", path, err)
	}

	// Важно закрыть writer, чтобы записать завершающую границу
	if err := writer.Close(); err != nil {
		log.Fatalf("Не удалось закрыть multipart writer: %v", err)
	}

	// Отправка файла на сервер
	resp, err := http.Post(serverAddr+"/api/v1/process", writer.FormDataContentType(), &body)
	if err != nil {
		log.Fatalf("Не удалось отправить запрос: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		log.Fatalf("Сервер вернул статус: %d", resp.StatusCode)
	}

	// Разбор идентификатора задачи из ответа
	var taskResp map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&taskResp); err != nil {
		log.Fatalf("Не удалось декодировать ответ: %v", err)
	}
	taskID := taskResp["task_id"]
	if taskID == "" {
		log.Fatal("Идентификатор задачи не найден в ответе")
	}

	fmt.Printf("Задача создана с идентификатором: %s\n", taskID)

	// Опрос о статусе задачи
	for {
		time.Sleep(2 * time.Second)

		resp, err := http.Get(fmt.Sprintf("%s/api/v1/tasks/%s", serverAddr, taskID))
		if err != nil {
			log.Fatalf("Не удалось опросить статус задачи: %v", err)
		}

		var statusResp TaskStatusResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&statusResp)
		resp.Body.Close()
		if decodeErr != nil {
			log.Fatalf("Не удалось декодировать ответ статуса: %v", decodeErr)
		}

		fmt.Printf("Статус задачи: %s\n", statusResp.Status)

		switch statusResp.Status {
		case "completed":
			printResult(serverAddr, taskID)
			return
		case "failed":
			log.Fatalf("Задача завершилась с ошибкой: %s", statusResp.ErrorMessage)
		}
	}
}

// printResult получает разобранный чат и выводит его сводку в консоль.
func printResult(serverAddr, taskID string) {
	resp, err := http.Get(fmt.Sprintf("%s/api/v1/tasks/%s/result?page_size=1000", serverAddr, taskID))
	if err != nil {
		log.Fatalf("Не удалось получить результат: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Сервер вернул статус: %d", resp.StatusCode)
	}

	var result TaskResultResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatalf("Не удалось декодировать результат: %v", err)
	}

	console := exporter.NewConsoleExporter()
	if err := console.Export(&result.Chat); err != nil {
		log.Fatalf("Не удалось вывести результат: %v", err)
	}
}
