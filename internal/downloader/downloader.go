// Package downloader 负责下载并缓存回测所需的历史K线数据。
package downloader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"binance-trade-bot-go/internal/logger"
	"binance-trade-bot-go/internal/models"

	"github.com/adshao/go-binance/v2"
)

// KlineDownloader 用于从币安下载K线数据
type KlineDownloader struct {
	client *binance.Client
}

// NewKlineDownloader 创建一个新的下载器实例
func NewKlineDownloader() *KlineDownloader {
	return &KlineDownloader{
		client: binance.NewClient("", ""), // 公共接口不需要API Key
	}
}

// DownloadKlines 下载指定交易对和时间范围内的K线数据，并保存到CSV文件。
// 如果文件已存在，则会跳过下载，直接使用缓存。
func (d *KlineDownloader) DownloadKlines(ctx context.Context, symbol, interval, filePath string, startTime, endTime time.Time) error {
	if !models.ValidInterval(interval) {
		return fmt.Errorf("无效的K线周期 %q", interval)
	}
	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		logger.S().Infow("从缓存加载数据", "file", filePath)
		return nil
	}

	logger.S().Infow("开始下载K线数据",
		"symbol", symbol, "interval", interval,
		"start", startTime.Format("2006-01-02"), "end", endTime.Format("2006-01-02"))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("无法创建目录 %s: %w", dir, err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("无法创建文件 %s: %w", filePath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"open_time", "open", "high", "low", "close", "volume", "close_time"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("写入CSV表头失败: %w", err)
	}

	for t := startTime; t.Before(endTime); {
		klines, err := d.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(t.UnixMilli()).
			EndTime(endTime.UnixMilli()).
			Limit(1000). // 币安单次请求最多1000条
			Do(ctx)
		if err != nil {
			return fmt.Errorf("下载K线数据失败: %w", err)
		}
		if len(klines) == 0 {
			break
		}

		for _, k := range klines {
			record := []string{
				strconv.FormatInt(k.OpenTime, 10),
				k.Open,
				k.High,
				k.Low,
				k.Close,
				k.Volume,
				strconv.FormatInt(k.CloseTime, 10),
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("写入CSV记录失败: %w", err)
			}
		}

		t = time.UnixMilli(klines[len(klines)-1].CloseTime + 1)
		logger.S().Debugw("已下载数据", "until", t.Format("2006-01-02 15:04:05"))
		time.Sleep(200 * time.Millisecond) // 避免过于频繁的请求
	}

	logger.S().Infow("K线数据下载完成", "file", filePath)
	return nil
}

// LoadKlines 从CSV缓存文件中读取K线数据，按时间升序返回。
func LoadKlines(filePath string) ([]models.Bar, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("无法打开文件 %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil { // 跳过表头
		return nil, fmt.Errorf("读取CSV表头失败: %w", err)
	}

	var bars []models.Bar
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("读取CSV记录失败: %w", err)
		}
		if len(record) < 6 {
			return nil, fmt.Errorf("CSV记录字段不足: %v", record)
		}

		bar, err := parseBar(record)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseBar(record []string) (models.Bar, error) {
	openTime, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return models.Bar{}, fmt.Errorf("解析open_time失败: %w", err)
	}
	var vals [5]float64
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return models.Bar{}, fmt.Errorf("解析K线字段 %d 失败: %w", i+1, err)
		}
		vals[i] = v
	}
	return models.Bar{
		Time:   openTime,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
