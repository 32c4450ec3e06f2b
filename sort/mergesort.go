package sort

// SequentialSort 단일 고루틴 머지소트.
// 입력 슬라이스는 수정하지 않으며, 길이 1 이하일 때만 입력을 그대로 반환한다.
func SequentialSort(arr []uint64) []uint64 {
	if len(arr) <= 1 {
		return arr
	}

	mid := len(arr) / 2
	left := SequentialSort(arr[:mid])
	right := SequentialSort(arr[mid:])

	return Merge(left, right)
}

// Merge 정렬된 두 슬라이스를 하나로 병합 (안정 병합).
// 값이 같으면 left 쪽 원소를 먼저 내보낸다.
func Merge(left, right []uint64) []uint64 {
	result := make([]uint64, 0, len(left)+len(right))
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		if left[i] <= right[j] {
			result = append(result, left[i])
			i++
		} else {
			result = append(result, right[j])
			j++
		}
	}

	// 남은 요소들 한 번에 추가
	if i < len(left) {
		result = append(result, left[i:]...)
	}
	if j < len(right) {
		result = append(result, right[j:]...)
	}

	return result
}
